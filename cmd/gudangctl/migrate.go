package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/gudang-api/internal/infrastructure/postgres"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones SQL pendientes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		applied, err := postgres.Migrate(cmd.Context(), e.pool)
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "aplicada %s\n", name)
		}
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones pendientes")
		}
		return nil
	},
}
