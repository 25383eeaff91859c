package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/imaginify/imaginify/internal/config"
	"github.com/imaginify/imaginify/internal/database"
)

// NewUserCmd creates the user command group
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect and manage synced users",
	}

	cmd.AddCommand(newUserGetCmd())
	cmd.AddCommand(newUserDeleteCmd())
	return cmd
}

func newUserGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <clerk-id>",
		Short: "Show a user by Clerk id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, db, err := userRepo()
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			user, err := repo.GetByClerkID(ctx, args[0])
			if errors.Is(err, database.ErrUserNotFound) {
				return fmt.Errorf("no user with clerk id %q", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to fetch user: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(user)
		},
	}
}

func newUserDeleteCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete <clerk-id>",
		Short: "Delete a user by Clerk id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to delete without --yes")
			}

			repo, db, err := userRepo()
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			user, err := repo.Delete(ctx, args[0])
			if errors.Is(err, database.ErrUserNotFound) {
				return fmt.Errorf("no user with clerk id %q", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}

			fmt.Printf("✓ Deleted user %s (%s)\n", user.ClerkID, user.Email)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the deletion")
	return cmd
}

func userRepo() (*database.UserRepository, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db := database.New(cfg.MongoURI, cfg.MongoDatabase)
	return database.NewUserRepository(db), db, nil
}
