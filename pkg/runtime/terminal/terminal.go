package terminal

import (
	"io"
	"os"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-atlas/pkg/services/ingest"
	"github.com/de-tools/sales-atlas/pkg/services/labels"
	"github.com/de-tools/sales-atlas/pkg/store/csvfile"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Labels *labels.Catalog
	// Load reads the sales CSV; defaults to csvfile.LoadFile.
	Load ingest.LoadFunc
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Labels == nil {
		opts.Labels = labels.Default()
	}
	if opts.Load == nil {
		opts.Load = csvfile.LoadFile
	}

	cli := &CLI{
		env: &commands.Env{
			Load:     opts.Load,
			Labels:   opts.Labels,
			Reporter: export.NewReporter(opts.Output),
			Output:   opts.Output,
		},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sales",
		Short:         "Supermarket sales summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.env.Output)

	cmd.AddCommand(commands.NewSummaryCmd(cli.env))
	cmd.AddCommand(commands.NewCitiesCmd(cli.env))
	cmd.AddCommand(commands.NewIngestCmd(cli.env))
	cmd.AddCommand(commands.NewExportCmd(cli.env))

	return cmd
}
