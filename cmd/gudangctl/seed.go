package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/seed"
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedSuperadminCmd)
	seedCmd.AddCommand(seedDemoCmd)
	seedCmd.AddCommand(seedImportCmd)

	seedSuperadminCmd.Flags().String("username", "", "Username (por defecto SEED_SUPERADMIN_USERNAME)")
	seedSuperadminCmd.Flags().String("email", "", "Email (por defecto SEED_SUPERADMIN_EMAIL)")
	seedSuperadminCmd.Flags().String("password", "", "Contraseña (por defecto SEED_SUPERADMIN_PASSWORD)")
	seedImportCmd.Flags().Bool("latin1", false, "El CSV está en ISO-8859-1 (exportado desde Excel)")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga datos iniciales",
}

var seedSuperadminCmd = &cobra.Command{
	Use:   "superadmin",
	Short: "Crea el superadmin si no existe",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		username := flagOr(cmd, "username", e.cfg.Seed.SuperadminUsername)
		email := flagOr(cmd, "email", e.cfg.Seed.SuperadminEmail)
		password := flagOr(cmd, "password", e.cfg.Seed.SuperadminPassword)

		user, created, err := e.seeder().EnsureSuperadmin(cmd.Context(), username, email, password)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "superadmin %s creado (%s)\n", user.Username, user.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "el usuario %s ya existe, sin cambios\n", user.Username)
		}
		return nil
	},
}

var seedDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Carga el catálogo de demostración con su stock inicial",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSeedActor(cmd, func(ctx context.Context, s *seed.Seeder, actor dto.Actor) (seed.Result, error) {
			return s.Demo(ctx, actor)
		})
	},
}

var seedImportCmd = &cobra.Command{
	Use:   "import ARCHIVO.csv",
	Short: "Importa productos desde CSV (sku,name,category,unit,price,min_stock,initial_stock[,description])",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("abrir CSV: %w", err)
		}
		defer f.Close()

		var r io.Reader = f
		if latin1, _ := cmd.Flags().GetBool("latin1"); latin1 {
			r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
		}
		rows, err := seed.ReadCSV(r)
		if err != nil {
			return err
		}
		return withSeedActor(cmd, func(ctx context.Context, s *seed.Seeder, actor dto.Actor) (seed.Result, error) {
			return s.Products(ctx, actor, rows)
		})
	},
}

// withSeedActor ejecuta fn en nombre del superadmin configurado (debe existir: ver seed superadmin).
func withSeedActor(cmd *cobra.Command, fn func(context.Context, *seed.Seeder, dto.Actor) (seed.Result, error)) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	s := e.seeder()
	user, _, err := s.EnsureSuperadmin(cmd.Context(), e.cfg.Seed.SuperadminUsername, e.cfg.Seed.SuperadminEmail, e.cfg.Seed.SuperadminPassword)
	if err != nil {
		return fmt.Errorf("superadmin %s: %w", e.cfg.Seed.SuperadminUsername, err)
	}
	actor := dto.Actor{UserID: user.ID, Username: user.Username, Role: user.Role, IPAddress: "gudangctl"}

	res, err := fn(cmd.Context(), s, actor)
	fmt.Fprintf(cmd.OutOrStdout(), "productos creados: %d, omitidos (SKU existente): %d\n", res.Created, res.Skipped)
	return err
}

func flagOr(cmd *cobra.Command, name, def string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return def
}
