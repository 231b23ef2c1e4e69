// Package main provides the entry point for the trip planner CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trip_agent",
	Short: "Budget-constrained trip planner",
	Long:  "Trip agent plans a short trip under a fixed budget: it allocates the budget across flight, hotel, and dining, gathers candidates from travel providers, and relaxes choices until the total fits.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
