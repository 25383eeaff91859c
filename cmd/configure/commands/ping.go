package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/imaginify/imaginify/internal/config"
	"github.com/imaginify/imaginify/internal/database"
)

// NewPingCmd creates the ping command
func NewPingCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check MongoDB connectivity",
		Long:  "Dial the configured MongoDB deployment and run a ping",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db := database.New(cfg.MongoURI, cfg.MongoDatabase)
			defer closeDB(db)

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			start := time.Now()
			if err := db.Ping(ctx); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}

			fmt.Printf("✓ MongoDB reachable (%s) in %s\n", cfg.MongoDatabase, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Connection timeout")
	return cmd
}

func closeDB(db *database.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
}
