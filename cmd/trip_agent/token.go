package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/trip-planner/internal/server"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long:  `Issues a signed bearer token for the REST API. Requires TRIP_JWT_SECRET to be set to the same secret the server runs with.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "Subject to embed in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", server.DefaultTokenTTL, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	secret := os.Getenv("TRIP_JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("TRIP_JWT_SECRET environment variable is required")
	}

	token, err := server.NewJWTService(secret, tokenTTL).GenerateToken(tokenSubject)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
