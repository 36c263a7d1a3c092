package api

type Metric struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	Reduction string `json:"reduction"`
}

type Selection struct {
	Cities []string `json:"cities"`
	Metric string   `json:"metric"`
}

type SummaryRow struct {
	Keys  []string `json:"keys"`
	Label string   `json:"label"`
	Value float64  `json:"value"`
	Count int      `json:"count"`
}

type SummaryTable struct {
	Name       string       `json:"name"`
	Title      string       `json:"title"`
	Dimensions []string     `json:"dimensions"`
	Metric     string       `json:"metric"`
	Reduction  string       `json:"reduction"`
	Rows       []SummaryRow `json:"rows"`
}

type Totals struct {
	Revenue     float64 `json:"revenue"`
	Costs       float64 `json:"costs"`
	GrossIncome float64 `json:"gross_income"`
	Sales       int     `json:"sales"`
}

type Dashboard struct {
	Selection Selection      `json:"selection"`
	Totals    Totals         `json:"totals"`
	Tables    []SummaryTable `json:"tables"`
}

type Error struct {
	Error string `json:"error"`
}
