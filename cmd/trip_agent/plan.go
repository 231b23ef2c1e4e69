package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/trip-planner/internal/config"
	"github.com/jonathan/trip-planner/internal/types"
)

var planCommand = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip under a fixed budget",
	Long: `Plans a trip end-to-end: allocates the budget across flight, hotel, and dining, queries the configured providers in parallel, ranks candidates, selects an itinerary, and relaxes it if the total runs over budget.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values; environment variables fill anything left unset.`,
	RunE: runPlanCmd,
}

var (
	planConfigPath      string
	planOrigin          string
	planDestination     string
	planStartDate       string
	planEndDate         string
	planBudget          float64
	planCuisine         string
	planPassengers      int
	planStars           int
	planTolerance       float64
	planAllocFlight     float64
	planAllocHotel      float64
	planAllocRestaurant float64
	planAPIKey          string
	planRestaurantsFile string
	planDatabaseURL     string
	planOffline         bool
	planUseBrowser      bool
	planVerbose         bool
	planJSONOutput      bool
)

func init() {
	planCommand.Flags().StringVar(&planConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	planCommand.Flags().StringVarP(&planOrigin, "origin", "o", "", "Origin city or IATA code (required)")
	planCommand.Flags().StringVarP(&planDestination, "destination", "d", "", "Destination city (required)")
	planCommand.Flags().StringVar(&planStartDate, "start", "", "Trip start date, YYYY-MM-DD (required)")
	planCommand.Flags().StringVar(&planEndDate, "end", "", "Trip end date, YYYY-MM-DD (required)")
	planCommand.Flags().Float64VarP(&planBudget, "budget", "b", 0, "Total trip budget (required)")
	planCommand.Flags().StringVar(&planCuisine, "cuisine", "", "Preferred restaurant cuisine")
	planCommand.Flags().IntVar(&planPassengers, "passengers", 1, "Number of travelers")
	planCommand.Flags().IntVar(&planStars, "stars", 0, "Minimum hotel star rating (1-5)")
	planCommand.Flags().Float64Var(&planTolerance, "tolerance", 0, "Allowed budget overshoot fraction (default 0.05)")
	planCommand.Flags().Float64Var(&planAllocFlight, "alloc-flight", 0, "Relative budget weight for flights")
	planCommand.Flags().Float64Var(&planAllocHotel, "alloc-hotel", 0, "Relative budget weight for hotels")
	planCommand.Flags().Float64Var(&planAllocRestaurant, "alloc-restaurant", 0, "Relative budget weight for restaurants")

	planCommand.Flags().StringVar(&planAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	planCommand.Flags().StringVar(&planRestaurantsFile, "restaurants-file", "", "Path to a static restaurant JSON file")
	planCommand.Flags().StringVar(&planDatabaseURL, "db-url", "", "PostgreSQL connection URL for plan archival (optional, defaults to DATABASE_URL env var)")
	planCommand.Flags().BoolVar(&planOffline, "offline", false, "Use deterministic mock providers and local ranking only")
	planCommand.Flags().BoolVar(&planUseBrowser, "use-browser", false, "Use headless browser for bot-gated pages (requires Chrome)")
	planCommand.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "Print detailed debug information")
	planCommand.Flags().BoolVar(&planJSONOutput, "json", false, "Print the full plan as JSON instead of the summary")

	_ = planCommand.MarkFlagRequired("origin")
	_ = planCommand.MarkFlagRequired("destination")
	_ = planCommand.MarkFlagRequired("start")
	_ = planCommand.MarkFlagRequired("end")
	_ = planCommand.MarkFlagRequired("budget")

	rootCmd.AddCommand(planCommand)
}

// resolveConfig layers the configuration sources: config file under
// environment under explicit flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.FromEnv()

	if planConfigPath != "" {
		loaded, err := config.LoadConfig(planConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.MergeWithDefaults(*loaded)
	}

	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = planAPIKey
	}
	if cmd.Flags().Changed("restaurants-file") {
		cfg.RestaurantsFile = planRestaurantsFile
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = planDatabaseURL
	}
	if cmd.Flags().Changed("offline") {
		cfg.Offline = planOffline
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = planUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = planVerbose
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	planner, closer, err := buildPlanner(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer closer()

	req := &types.TripRequest{
		Origin:          planOrigin,
		Destination:     planDestination,
		StartDate:       planStartDate,
		EndDate:         planEndDate,
		Budget:          planBudget,
		Cuisine:         planCuisine,
		Passengers:      planPassengers,
		StarsPreference: planStars,
		Tolerance:       planTolerance,
	}

	override := map[types.Category]float64{}
	if planAllocFlight > 0 {
		override[types.CategoryFlight] = planAllocFlight
	}
	if planAllocHotel > 0 {
		override[types.CategoryHotel] = planAllocHotel
	}
	if planAllocRestaurant > 0 {
		override[types.CategoryRestaurant] = planAllocRestaurant
	}
	if len(override) > 0 {
		req.AllocationOverride = override
	}

	plan, err := planner.Plan(ctx, req)
	if err != nil {
		return err
	}

	if planJSONOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(plan)
	}

	fmt.Printf("\n%s\n", plan.Summary)
	if !plan.WithinTolerance {
		if plan.Costs.Subtotal > plan.Costs.Budget {
			fmt.Printf("\nNote: the plan exceeds the budget even after relaxation.\n")
		} else {
			fmt.Printf("\nNote: the plan comes in well under budget.\n")
		}
	}
	return nil
}
