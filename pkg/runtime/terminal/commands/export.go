package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/render/charts"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	env    *Env
	source source
	sel    selectionFlags
	outDir string
	format string
	width  int
	height int
}

func NewExportCmd(env *Env) *cobra.Command {
	ec := &ExportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every dashboard chart into a directory",
		RunE:  ec.run,
	}

	ec.source.bind(cmd)
	ec.sel.bind(cmd)
	cmd.Flags().StringVarP(&ec.outDir, "out", "o", "charts", "Output directory")
	cmd.Flags().StringVar(&ec.format, "format", string(charts.FormatSVG), "Image format: svg or png")
	cmd.Flags().IntVar(&ec.width, "width", 1200, "Chart width in pixels")
	cmd.Flags().IntVar(&ec.height, "height", 400, "Chart height in pixels")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, err := charts.ParseFormat(ec.format)
	if err != nil {
		return err
	}

	svc, err := ec.source.snapshot(ctx, ec.env)
	if err != nil {
		return err
	}

	sel, err := ec.sel.selection(ctx, cmd, svc)
	if err != nil {
		return err
	}
	d, err := svc.Summarize(ctx, sel)
	if err != nil {
		return err
	}

	renderer := charts.NewRenderer(ec.env.Labels, charts.Options{Width: ec.width, Height: ec.height})
	images, err := renderer.RenderAll(ctx, d, format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(ec.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", ec.outDir, err)
	}

	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, string(name))
	}
	slices.Sort(names)

	for _, name := range names {
		path := filepath.Join(ec.outDir, name+"."+string(format))
		if err := os.WriteFile(path, images[domain.TableName(name)], 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintln(ec.env.Output, path)
	}
	return nil
}
