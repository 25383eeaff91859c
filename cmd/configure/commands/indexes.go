package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewIndexesCmd creates the indexes command
func NewIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Ensure database indexes exist",
		Long:  "Create the unique index on clerk_id if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, db, err := userRepo()
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := repo.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("failed to ensure indexes: %w", err)
			}

			fmt.Println("✓ Indexes ensured")
			return nil
		},
	}
}
