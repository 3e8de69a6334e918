package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/config"
)

func newPresetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "List filter presets or show one resolved preset",
		Long: `Presets lists the named filter presets defined under "presets" in
the config file. With a name, it prints that preset as YAML after
resolving its extends chain, which is exactly what analyze --preset
starts from.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresets(cmd.Context(), cmd, args)
		},
	}

	return cmd
}

func runPresets(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg := config.FromContext(ctx)
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		p, err := cfg.ResolvePreset(args[0])
		if err != nil {
			return usageError(err)
		}

		data, err := sigsyaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling preset %q: %w", args[0], err)
		}

		_, err = w.Write(data)

		return err
	}

	names := cfg.PresetNames()
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No presets defined. Add a presets section to .vacancies.yaml.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "NAME\tEXTENDS\tDESCRIPTION")
	_, _ = fmt.Fprintln(tw, "----\t-------\t-----------")

	for _, n := range names {
		p := cfg.Presets[n]

		extends := p.Extends
		if extends == "" {
			extends = "-"
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", n, extends, p.Description)
	}

	return tw.Flush()
}
