// Package cli defines the menu-service command line.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"menu-service/internal/common/logging"
	"menu-service/internal/config"
)

// NewRootCommand builds the command tree. Settings are read from v, which
// is bound to the environment and to the command-line flags.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "menu-service",
		Short:         "Menu CRUD API with a Redis read-through cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.LoadFrom(v)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return logging.InitGlobalLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.MustSync()
		},
	}

	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (console, json)")
	bindFlag(v, root, "log_level", "log-level")
	bindFlag(v, root, "log_format", "log-format")

	current := func() *config.Config { return cfg }
	root.AddCommand(
		newServeCommand(v, current),
		newMigrateCommand(current),
		newCacheCommand(current),
	)
	return root
}

// Execute runs the CLI with settings from the environment and an optional .env file
func Execute() error {
	_ = godotenv.Load()
	return NewRootCommand(config.NewViper()).Execute()
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}
