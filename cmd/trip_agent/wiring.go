package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/trip-planner/internal/config"
	"github.com/jonathan/trip-planner/internal/db"
	"github.com/jonathan/trip-planner/internal/fetch"
	"github.com/jonathan/trip-planner/internal/llm"
	"github.com/jonathan/trip-planner/internal/pipeline"
	"github.com/jonathan/trip-planner/internal/providers"
	"github.com/jonathan/trip-planner/internal/ranking"
	"github.com/jonathan/trip-planner/internal/summary"
)

// buildPlanner assembles a Planner from the merged configuration.
// Providers without credentials fall back to deterministic mocks, and
// with no Gemini key the ranker and summarizer run their offline
// backends. The returned closer releases the LLM client and database
// pool; it is never nil.
func buildPlanner(ctx context.Context, cfg config.Config, out io.Writer) (*pipeline.Planner, func(), error) {
	var client llm.Client
	if !cfg.Offline && cfg.APIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		client = gemini
	}

	planner := &pipeline.Planner{
		Flights:     providers.MockFlights{},
		Hotels:      providers.MockHotels{},
		Restaurants: providers.MockRestaurants{},
		Ranker:      ranking.NewRanker(client),
		Summarizer:  summary.NewSummarizer(client),
		Verbose:     cfg.Verbose,
		Out:         out,
	}

	if !cfg.Offline {
		if cfg.AmadeusClientID != "" {
			planner.Flights = providers.NewAmadeusFlights(cfg.AmadeusClientID, cfg.AmadeusClientSecret)
		}
		if cfg.SerpAPIKey != "" {
			planner.Hotels = providers.NewSerpHotels(cfg.SerpAPIKey)
		}
		switch {
		case cfg.RestaurantsFile != "":
			planner.Restaurants = providers.NewStaticRestaurants(cfg.RestaurantsFile)
		default:
			planner.Restaurants = providers.NewTripAdvisorRestaurants(fetch.DefaultOptions(), cfg.UseBrowser)
		}
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(out, "Warning: failed to connect to database: %v\n", err)
			fmt.Fprintf(out, "Continuing without plan archival...\n")
		} else if err := database.EnsureSchema(ctx); err != nil {
			fmt.Fprintf(out, "Warning: failed to prepare archive schema: %v\n", err)
			database.Close()
			database = nil
		}
	}
	planner.Archive = database

	closer := func() {
		if client != nil {
			_ = client.Close()
		}
		if database != nil {
			database.Close()
		}
	}
	return planner, closer, nil
}
