package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/config"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/logging"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/report"
)

type optionsOptions struct {
	format string
	output string
}

func newOptionsCommand() *cobra.Command {
	opts := &optionsOptions{}

	cmd := &cobra.Command{
		Use:   "options [file]...",
		Short: "List the values each filter can take",
		Long: `Options loads the data files and lists, for every dimension, the
distinct values in order of first appearance, together with the range of
parseable posting dates. These are the values accepted by the filter
flags of analyze.

Output formats: table (default), json, yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(cmd.Context(), cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", report.FormatTable, "output format: table, json, yaml")
	f.StringVarP(&opts.output, "output", "o", "", "write the listing to this file instead of stdout")
	registerSourceFlags(cmd)

	return cmd
}

func runOptions(ctx context.Context, cmd *cobra.Command, args []string, opts *optionsOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	formatter, err := report.NewOptionsFormatter(opts.format)
	if err != nil {
		return usageError(err)
	}

	paths, err := resolveSources(args, cfg)
	if err != nil {
		return err
	}

	comma, err := cfg.Delimiter()
	if err != nil {
		return usageError(err)
	}

	table, err := dataset.Load(ctx, dataset.LoadOptions{Comma: comma, Logger: logger}, paths...)
	if err != nil {
		return err
	}

	dest := report.To(opts.output, cmd.OutOrStdout(), logger)

	return report.RenderOptions(formatter, report.BuildOptions(table), dest)
}
