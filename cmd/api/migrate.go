package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"todoapi/internal/adapter/database"
	"todoapi/pkg/config"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations for the sqlite or postgres store and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)

			if err != nil {
				return err
			}

			applied, err := database.Migrate(cfg)

			if err != nil {
				return err
			}

			if !applied {
				fmt.Fprintf(cmd.OutOrStdout(), "store %q has no migrations\n", cfg.Store)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s store\n", cfg.Store)
			return nil
		},
	}
}
