package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"menu-service/internal/app"
	"menu-service/internal/config"
)

func newMigrateCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := app.Migrate(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}
