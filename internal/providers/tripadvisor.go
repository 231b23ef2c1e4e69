package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/trip-planner/internal/fetch"
	"github.com/jonathan/trip-planner/internal/types"
)

const (
	tripAdvisorSearchURL = "https://www.tripadvisor.com/Search"

	// Scraped listings carry no menu prices, so each restaurant gets a
	// flat per-meal estimate.
	defaultMealEstimate = 15.0
)

// TripAdvisorRestaurants discovers restaurants by scraping TripAdvisor
// search results. Scraping is best-effort: when the page cannot be
// fetched or yields no listings, the fixed mock inventory is returned
// so the plan still has dining candidates.
type TripAdvisorRestaurants struct {
	searchURL  string
	opts       *fetch.Options
	useBrowser bool
}

// NewTripAdvisorRestaurants builds a scraper. When useBrowser is set,
// pages that look bot-gated are re-fetched through a headless browser.
func NewTripAdvisorRestaurants(opts *fetch.Options, useBrowser bool) *TripAdvisorRestaurants {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &TripAdvisorRestaurants{
		searchURL:  tripAdvisorSearchURL,
		opts:       opts,
		useBrowser: useBrowser,
	}
}

func (t *TripAdvisorRestaurants) Search(ctx context.Context, q RestaurantQuery) ([]types.Restaurant, error) {
	restaurants, err := t.scrape(ctx, q)
	if err != nil || len(restaurants) == 0 {
		return mockRestaurantData(q), nil
	}
	return capRestaurants(restaurants, q.Limit), nil
}

func (t *TripAdvisorRestaurants) scrape(ctx context.Context, q RestaurantQuery) ([]types.Restaurant, error) {
	query := strings.TrimSpace(q.Cuisine + " restaurants " + q.Destination)
	searchURL := t.searchURL + "?q=" + url.QueryEscape(query)

	result, err := fetch.URL(ctx, searchURL, t.opts)
	if err != nil {
		return nil, err
	}
	html := result.HTML
	if t.useBrowser && fetch.ShouldUseBrowser(html) {
		browsed, berr := fetch.WithBrowser(ctx, searchURL, fetch.DefaultTimeout, false)
		if berr != nil {
			return nil, berr
		}
		html = browsed
	}

	anchors, err := fetch.Anchors(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	cuisine := q.Cuisine
	if cuisine == "" {
		cuisine = "Various"
	}

	seen := make(map[string]bool)
	restaurants := make([]types.Restaurant, 0, len(anchors))
	for _, a := range anchors {
		if !strings.Contains(a.Href, "/Restaurant_Review-") {
			continue
		}
		link := a.Href
		if strings.HasPrefix(link, "/") {
			link = "https://www.tripadvisor.com" + link
		}
		if seen[link] {
			continue
		}
		seen[link] = true

		name := strings.TrimSpace(a.Text)
		if name == "" {
			name = strings.TrimSpace(a.Title)
		}
		if name == "" {
			continue
		}

		restaurants = append(restaurants, types.Restaurant{
			Name:           name,
			Cuisine:        cuisine,
			EstimatedPrice: defaultMealEstimate,
			Link:           link,
		})
	}
	return restaurants, nil
}
