package commands

import (
	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	env    *Env
	source source
	sel    selectionFlags
	table  string
}

func NewSummaryCmd(env *Env) *cobra.Command {
	sc := &SummaryCmd{env: env}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary tables",
		RunE:  sc.run,
	}

	sc.source.bind(cmd)
	sc.sel.bind(cmd)
	cmd.Flags().StringVar(&sc.table, "table", "", "Only print this table (city, payment, gender_city, date, product_line_city)")

	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, closeFn, err := sc.source.open(sc.env)
	if err != nil {
		return err
	}
	defer closeFn()

	sel, err := sc.sel.selection(ctx, cmd, svc)
	if err != nil {
		return err
	}

	d, err := svc.Summarize(ctx, sel)
	if err != nil {
		return err
	}

	if sc.table != "" {
		spec, err := domain.LookupTable(sc.table)
		if err != nil {
			return err
		}
		t, _ := d.Table(spec.Name)
		d.Tables = []domain.SummaryTable{t}
	}

	return sc.env.Reporter.Handle(adapters.MapDashboardToReport(d, sc.env.Labels))
}
