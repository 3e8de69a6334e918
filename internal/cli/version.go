package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		constraint string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Display the version, git commit, build date, Go version, and platform.

With --check, exit with code 1 unless the binary satisfies the given
semver constraint, the same check the required-version config key runs.`,
		Args:  cobra.NoArgs,
		// Override parent PersistentPreRunE: version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()

			if constraint != "" {
				if err := version.Check(constraint); err != nil {
					return &ExitError{Code: 1, Err: err}
				}
			}

			if jsonOutput {
				j, err := info.JSON()
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), j)

				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON")
	cmd.Flags().StringVar(&constraint, "check", "", `fail unless the version satisfies this constraint (e.g. ">= 0.2")`)

	return cmd
}
