package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"viralcoin/internal/directory"
)

// apps: print the mini-app directory.
func appsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the mini-apps in the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := directory.Fetch(cmd.Context(), wire.Backend, wire.Logger)
			out := cmd.OutOrStdout()

			if view.Error != "" {
				return fmt.Errorf("%s", view.Error)
			}
			if view.Empty {
				fmt.Fprintln(out, directory.EmptyMessage)
				return nil
			}
			for _, item := range view.Items {
				fmt.Fprintf(out, "%s\t%s\n", item.Name, item.URL)
				if item.Description != "" {
					fmt.Fprintf(out, "\t%s\n", item.Description)
				}
				if len(item.Tags) > 0 {
					fmt.Fprintf(out, "\t[%s]\n", strings.Join(item.Tags, ", "))
				}
			}
			return nil
		},
	}
}
