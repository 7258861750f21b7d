package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
	"gorm.io/gorm"

	"shopd/internal/config"
	"shopd/internal/db"
	"shopd/internal/models"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Admin utility for the shopd backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newCreateAdminCommand())
	return cmd
}

func connect(ctx context.Context) (*gorm.DB, func() error, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	return database, func() error { return db.Close(database) }, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()
			return db.Migrate(ctx, database)
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the baseline catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()
			return db.Seed(ctx, database)
		},
	}
}

func newCreateAdminCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a verified superuser account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" || !strings.Contains(email, "@") {
				return errors.New("a valid --email is required")
			}

			fmt.Fprint(os.Stderr, "Password: ")
			password, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			database, closeDB, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			user := &models.User{
				Email:           email,
				PasswordHash:    string(hash),
				IsActive:        true,
				IsSuperuser:     true,
				IsVerifiedEmail: true,
			}
			if err := database.WithContext(ctx).Create(user).Error; err != nil {
				return err
			}
			if err := database.WithContext(ctx).Create(&models.UserToken{
				UserID:    user.ID,
				TokenType: models.TokenTypeNone,
			}).Error; err != nil {
				return err
			}

			fmt.Printf("created superuser %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address for the new superuser")
	return cmd
}
