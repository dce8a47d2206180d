package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/models"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := app.database()
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	var name, email, password, phone string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first ADMIN account (no-op when the email exists)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}

			gdb, err := app.database()
			if err != nil {
				return err
			}
			users := repositories.NewUserRepositoryGORM(gdb)
			email = strings.ToLower(strings.TrimSpace(email))

			existing, err := users.FindByEmail(cmd.Context(), email)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "User %s already exists with role %s\n", existing.Email, existing.Role)
				return nil
			case !errors.Is(err, repositories.ErrNotFound):
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			admin := &models.User{
				Name:       name,
				Email:      email,
				Password:   hash,
				Phone:      phone,
				Role:       constants.RoleAdmin,
				IsVerified: true,
				IsActive:   true,
			}
			if err := users.Create(cmd.Context(), admin); err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(app.cfg.Redacted())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
