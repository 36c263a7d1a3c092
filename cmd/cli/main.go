package main

import (
	"fmt"
	"os"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal"
	"github.com/de-tools/sales-atlas/pkg/services/labels"
	"github.com/de-tools/sales-atlas/pkg/store/csvfile"
)

func main() {
	catalog := labels.Default()
	if path := os.Getenv("SALES_ATLAS_LABELS"); path != "" {
		loaded, err := labels.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		catalog = loaded
	}

	cli := terminal.NewCLI(terminal.Options{
		Output: os.Stdout,
		Labels: catalog,
		Load:   csvfile.LoadFile,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
