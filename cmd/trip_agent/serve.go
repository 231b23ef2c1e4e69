package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/trip-planner/internal/config"
	"github.com/jonathan/trip-planner/internal/server"
)

var (
	servePort       int
	serveConfigPath string
	serveOffline    bool
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for planning trips and browsing archived plans.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().BoolVar(&serveOffline, "offline", false, "Use deterministic mock providers and local ranking only")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.FromEnv()
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*loaded)
	}
	if cmd.Flags().Changed("offline") {
		cfg.Offline = serveOffline
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = serveVerbose
	}
	if cmd.Flags().Changed("port") || cfg.Port == 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	planner, closer, err := buildPlanner(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer closer()

	srv := server.New(planner, planner.Archive, server.Config{
		Port:      cfg.Port,
		JWTSecret: cfg.JWTSecret,
	})
	return srv.Start()
}
