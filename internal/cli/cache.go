package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"menu-service/internal/app"
	"menu-service/internal/config"
)

func newCacheCommand(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Administer the cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "flush",
			Short: "Remove every cache entry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := app.NewCacheOnly(cfg())
				if err != nil {
					return err
				}
				defer a.Close()

				if err := a.Cache.Flush(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cache flushed")
				return nil
			},
		},
		&cobra.Command{
			Use:     "purge <pattern>",
			Short:   "Remove cache keys matching a glob pattern",
			Example: "  menu-service cache purge 'entity:dish:*'",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := app.NewCacheOnly(cfg())
				if err != nil {
					return err
				}
				defer a.Close()

				n, err := a.Cache.Purge(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d keys\n", n)
				return nil
			},
		},
	)
	return cmd
}
