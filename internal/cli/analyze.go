package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/config"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/logging"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/report"
)

type analyzeOptions struct {
	filterOptions
	renderOptions
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [file]...",
		Short: "Filter vacancies and show counts, rows, and distributions",
		Long: `Analyze loads the given CSV files (or the sources from the config
file), applies the filters, and reports the matching vacancies.

Every dimension starts unrestricted, skills start with every known skill,
and the date range spans the whole table. A --preset replaces those
defaults and the flags refine the result again: an include flag replaces
the kept values, exclude flags always drop rows, even rows also kept by
an include.

Output formats: table (default), json, yaml, csv.`,
		Example: `  vacancies analyze IT_Jobs.csv --position Backend --location Ташкент
  vacancies analyze IT_Jobs.csv UzDev_Jobs.csv --skill Go --skill Python --exclude-company EPAM
  vacancies analyze --preset backend-remote --from 2024-01-01 --format json -o report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd, args, opts)
		},
	}

	registerFilterFlags(cmd, &opts.filterOptions)
	registerRenderFlags(cmd, &opts.renderOptions)
	registerSourceFlags(cmd)
	registerCompletions(cmd)

	return cmd
}

func runAnalyze(ctx context.Context, cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	cfg := config.FromContext(ctx)

	// Fail fast on bad flags before touching the data.
	formatter, err := newReportFormatter(cfg, &opts.renderOptions, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if err := opts.validate(cfg); err != nil {
		return usageError(err)
	}

	paths, err := resolveSources(args, cfg)
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx, cfg, paths, &opts.filterOptions)
	if err != nil {
		return err
	}

	out, err := p.run(ctx, cfg)
	if err != nil {
		return err
	}

	dest := report.To(opts.output, cmd.OutOrStdout(), logging.FromContext(ctx))

	return report.Render(formatter, report.New(out.Table, out.Result), dest)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// newReportFormatter builds the formatter for the render flags. Colors are
// used only when writing to a terminal.
func newReportFormatter(cfg *config.Config, opts *renderOptions, stdout io.Writer) (report.Formatter, error) {
	if opts.limit < 0 {
		return nil, usageError(errNegativeLimit)
	}

	f, err := report.NewFormatter(opts.format, report.FormatOptions{
		Limit: opts.limit,
		Color: !cfg.NoColor && opts.output == "" && isTerminal(stdout),
	})
	if err != nil {
		return nil, usageError(err)
	}

	return f, nil
}
