package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/config"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/logging"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/report"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/watch"
)

type watchOptions struct {
	analyzeOptions

	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [file]...",
		Short: "Re-run analyze whenever a data file changes",
		Long: `Watch runs analyze once, then monitors the data files and runs it
again each time one of them is written, replaced, or removed.

File changes are debounced to avoid rapid re-runs. Each run prints a
status line and a unified diff of the distribution summary against the
previous run, so additions to a channel export show up immediately.
Unchanged files are served from an in-memory cache.

The report itself is written to --output, or to stdout when unset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args, opts)
		},
	}

	registerFilterFlags(cmd, &opts.filterOptions)
	registerRenderFlags(cmd, &opts.renderOptions)
	registerSourceFlags(cmd)
	registerCompletions(cmd)

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, args []string, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	formatter, err := newReportFormatter(cfg, &opts.renderOptions, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if err := opts.validate(cfg); err != nil {
		return usageError(err)
	}

	if opts.debounce <= 0 {
		return usageError(errNonPositiveDebounce)
	}

	paths, err := resolveSources(args, cfg)
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx, cfg, paths, &opts.filterOptions)
	if err != nil {
		return err
	}

	dest := report.To(opts.output, cmd.OutOrStdout(), logger)

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		out, runErr := p.run(fnCtx, cfg)
		if runErr != nil {
			return nil, runErr
		}

		if renderErr := report.Render(formatter, report.New(out.Table, out.Result), dest); renderErr != nil {
			return nil, renderErr
		}

		return &watch.RunResult{
			Total:   out.Result.Total,
			Records: out.Table.Len(),
			Summary: watch.Summary(out.Result),
		}, nil
	}

	watchOpts := watch.Options{
		Files:    paths,
		Debounce: opts.debounce,
		Color:    !cfg.NoColor && isTerminal(cmd.ErrOrStderr()),
		Logger:   logging.Component(ctx, "watch"),
		Out:      cmd.ErrOrStderr(),
	}

	return watch.Run(ctx, watchOpts, runFn)
}
