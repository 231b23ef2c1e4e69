package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/trip-planner/internal/types"
)

const serpAPIBaseURL = "https://serpapi.com/search"

var hotelClassDigits = regexp.MustCompile(`\d+`)

// SerpHotels searches live hotel availability through the SerpApi
// google_hotels engine.
type SerpHotels struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewSerpHotels(apiKey string) *SerpHotels {
	return &SerpHotels{
		apiKey:     apiKey,
		baseURL:    serpAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type serpHotelsResponse struct {
	Properties []struct {
		Name          string  `json:"name"`
		HotelClass    string  `json:"hotel_class"`
		OverallRating float64 `json:"overall_rating"`
		Link          string  `json:"link"`
		RatePerNight  struct {
			Lowest string `json:"lowest"`
		} `json:"rate_per_night"`
	} `json:"properties"`
	Error string `json:"error"`
}

// Search queries hotels for the stay window and normalizes each
// property into a canonical hotel. Properties without a parsable
// nightly rate are skipped. Results honor the query's price and star
// caps and are sorted by rating then price.
func (s *SerpHotels) Search(ctx context.Context, q HotelQuery) ([]types.Hotel, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("serpapi key not configured")
	}

	params := url.Values{}
	params.Set("engine", "google_hotels")
	params.Set("q", "hotels in "+q.Destination)
	params.Set("check_in_date", q.CheckIn)
	params.Set("check_out_date", q.CheckOut)
	params.Set("currency", "USD")
	params.Set("hl", "en")
	params.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotel search failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload serpHotelsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse hotel response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("serpapi error: %s", payload.Error)
	}

	hotels := make([]types.Hotel, 0, len(payload.Properties))
	for _, p := range payload.Properties {
		price := parseRate(p.RatePerNight.Lowest)
		if price <= 0 {
			continue
		}
		hotels = append(hotels, types.Hotel{
			Name:          p.Name,
			Stars:         parseHotelClass(p.HotelClass),
			PricePerNight: price,
			Rating:        p.OverallRating,
			Currency:      "USD",
			Link:          p.Link,
		})
	}

	filtered := filterHotels(hotels, q)
	sortHotels(filtered)
	return filtered, nil
}

// parseRate extracts the numeric amount from a display rate such as
// "$1,234" or "US$89". Returns 0 when nothing numeric remains.
func parseRate(rate string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, rate)
	if cleaned == "" {
		return 0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return types.Round2(price)
}

// parseHotelClass pulls the star count out of labels like
// "4-star hotel". Returns 0 when no digits appear.
func parseHotelClass(class string) int {
	match := hotelClassDigits.FindString(class)
	if match == "" {
		return 0
	}
	stars, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return stars
}
