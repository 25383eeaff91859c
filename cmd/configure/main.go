package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/imaginify/imaginify/cmd/configure/commands"
)

func main() {
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:   "imaginify-configure",
		Short: "Administration tool for the Imaginify API",
		Long:  "CLI tool for checking connectivity and inspecting synced users",
	}

	rootCmd.AddCommand(commands.NewPingCmd())
	rootCmd.AddCommand(commands.NewUserCmd())
	rootCmd.AddCommand(commands.NewIndexesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
