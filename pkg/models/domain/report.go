package domain

// Report represents a complete summary report for terminal output
type Report struct {
	Title    string
	Subtitle string
	Totals   []ReportDetail
	Sections []ReportSection
}

// ReportSection represents one summary table in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
