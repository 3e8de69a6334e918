package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/config"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/logging"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/report"
)

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for vacancies.

To load completions:

Bash:
  $ source <(vacancies completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ vacancies completion bash > /etc/bash_completion.d/vacancies

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ vacancies completion zsh > "${fpath[1]}/_vacancies"

Fish:
  $ vacancies completion fish > ~/.config/fish/completions/vacancies.fish

PowerShell:
  PS> vacancies completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> vacancies completion powershell > vacancies.ps1
  # and source this file from your PowerShell profile.
`,
		// Override parent PersistentPreRunE: completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}

			return nil
		},
	}

	return cmd
}

// completeDataFiles completes positional arguments with CSV files.
func completeDataFiles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"csv", "tsv", "txt"}, cobra.ShellCompDirectiveFilterFileExt
}

// completionConfig loads the config for a completion request, which runs
// without PersistentPreRunE.
func completionConfig(cmd *cobra.Command) *config.Config {
	file := ""
	if f := cmd.Flag("config"); f != nil {
		file = f.Value.String()
	}

	cfg, err := config.Load(cmd, file)
	if err != nil {
		return config.Default()
	}

	return cfg
}

// completeDimension completes a dimension flag with the values found in
// the data files already on the command line.
func completeDimension(d dataset.Dimension) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		cfg := completionConfig(cmd)

		paths, err := resolveSources(args, cfg)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		comma, err := cfg.Delimiter()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		table, err := dataset.Load(ctx, dataset.LoadOptions{Comma: comma, Logger: logging.Discard()}, paths...)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		values := table.Universe(d)
		if d != dataset.Skills {
			values = append([]string{filter.All}, values...)
		}

		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerCompletions wires flag value completion for a command carrying
// the filter and render flags.
func registerCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeDataFiles

	for _, d := range dataset.AllDimensions {
		for _, name := range []string{dimensionFlag(d), "exclude-" + dimensionFlag(d)} {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, completeDimension(d))
			}
		}
	}

	if cmd.Flags().Lookup("preset") != nil {
		_ = cmd.RegisterFlagCompletionFunc("preset", func(c *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return completionConfig(c).PresetNames(), cobra.ShellCompDirectiveNoFileComp
		})
	}

	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(report.Formats, cobra.ShellCompDirectiveNoFileComp))
	}
}
