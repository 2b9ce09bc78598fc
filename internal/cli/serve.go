package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"menu-service/internal/app"
	"menu-service/internal/common/logging"
	"menu-service/internal/config"
)

func newServeCommand(v *viper.Viper, cfg func() *config.Config) *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logging.Info("Starting menu service", logging.String("addr", cfg().Address()))

			a, err := app.New(ctx, cfg(), skipMigrations)
			if err != nil {
				logging.Error("Failed to initialize application", err)
				return err
			}
			defer a.Close()

			return a.Serve(ctx)
		},
	}

	cmd.Flags().Int("port", 0, "HTTP port")
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply database migrations on startup")
	bindFlag(v, cmd, "port", "port")
	return cmd
}
