// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the planner configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults, CLI
// flags, or environment variables.
type Config struct {
	// Credentials
	APIKey              string `json:"api_key,omitempty"`               // Gemini API key
	AmadeusClientID     string `json:"amadeus_client_id,omitempty"`     // Amadeus OAuth2 client ID
	AmadeusClientSecret string `json:"amadeus_client_secret,omitempty"` // Amadeus OAuth2 client secret
	SerpAPIKey          string `json:"serpapi_api_key,omitempty"`       // SerpApi key for hotel search

	// Data sources
	RestaurantsFile string `json:"restaurants_file,omitempty"` // Path to a static restaurant JSON file
	DatabaseURL     string `json:"database_url,omitempty"`     // PostgreSQL connection URL

	// Behavior
	Offline    bool `json:"offline,omitempty"`     // Use deterministic mock providers only
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for bot-gated pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information

	// Server
	Port      int    `json:"port,omitempty"`       // HTTP listen port for serve mode
	JWTSecret string `json:"jwt_secret,omitempty"` // Bearer token secret for the API
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Unset variables
// leave their fields zero.
func FromEnv() Config {
	return Config{
		APIKey:              os.Getenv("GEMINI_API_KEY"),
		AmadeusClientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		AmadeusClientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		SerpAPIKey:          os.Getenv("SERPAPI_API_KEY"),
		RestaurantsFile:     os.Getenv("TRIP_RESTAURANTS_FILE"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("TRIP_JWT_SECRET"),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.AmadeusClientID != "" && c.AmadeusClientSecret == "" {
		return fmt.Errorf("config error: 'amadeus_client_secret' is required when 'amadeus_client_id' is set")
	}
	if c.RestaurantsFile != "" {
		if _, err := os.Stat(c.RestaurantsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: restaurants file not found: %s", c.RestaurantsFile)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to layer a config file under CLI flags and the
// environment.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.AmadeusClientID == "" {
		result.AmadeusClientID = defaults.AmadeusClientID
	}
	if result.AmadeusClientSecret == "" {
		result.AmadeusClientSecret = defaults.AmadeusClientSecret
	}
	if result.SerpAPIKey == "" {
		result.SerpAPIKey = defaults.SerpAPIKey
	}
	if result.RestaurantsFile == "" {
		result.RestaurantsFile = defaults.RestaurantsFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Booleans: true wins from either side
	result.Offline = result.Offline || defaults.Offline
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
