package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func themeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the theme preference",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				if err := e.prefs.SetDarkMode(ctx, args[0] == "dark"); err != nil {
					return err
				}
			}

			dark, err := e.prefs.DarkMode(ctx)
			if err != nil {
				return err
			}
			if dark {
				fmt.Fprintln(cmd.OutOrStdout(), "dark")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "light")
			}
			return nil
		},
	}
}
