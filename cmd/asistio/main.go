package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asistio/asistio/internal/app"
	"github.com/asistio/asistio/internal/config"
	"github.com/asistio/asistio/internal/logger"
	"github.com/asistio/asistio/internal/model"
	"github.com/asistio/asistio/internal/repository"
	"github.com/asistio/asistio/internal/service"
)

var (
	adminEmail    string
	adminPassword string
	adminNames    string
	adminSurnames string
)

// The HTTP API only lets admins create users, so the first admin has to
// come from somewhere else. This CLI is that somewhere else.
func main() {
	rootCmd := &cobra.Command{
		Use:   "asistio",
		Short: "Asistio operations CLI",
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			// app.New already ran migrations; reaching here means they applied.
			fmt.Println("migrations up to date")
			return nil
		},
	}

	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if adminEmail == "" || adminPassword == "" {
				return fmt.Errorf("--email and --password are required")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()

			role, err := repository.NewReferenceRepository(a.DB).RoleByName(ctx, model.RoleAdmin)
			if err != nil {
				return fmt.Errorf("failed to look up admin role: %w", err)
			}

			accountID, err := a.ProvisionService.Provision(ctx, service.ProvisionInput{
				Email:       adminEmail,
				Password:    adminPassword,
				GivenNames:  adminNames,
				FamilyNames: adminSurnames,
				RoleID:      &role.ID,
			})
			if err != nil {
				return err
			}

			fmt.Printf("admin account created: %s (%s)\n", adminEmail, accountID)
			return nil
		},
	}
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Sign-in email for the new admin")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Initial password")
	createAdminCmd.Flags().StringVar(&adminNames, "nombres", "", "Given names")
	createAdminCmd.Flags().StringVar(&adminSurnames, "apellidos", "", "Family names")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() (*app.App, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	return app.New(cfg)
}
