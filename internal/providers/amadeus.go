package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/trip-planner/internal/types"
)

const (
	amadeusTestBaseURL = "https://test.api.amadeus.com"
	amadeusTokenPath   = "/v1/security/oauth2/token"
	amadeusOffersPath  = "/v2/shopping/flight-offers"

	// Tokens are refreshed slightly before Amadeus expires them.
	amadeusTokenSlack = 30 * time.Second

	amadeusMaxOffers = 10
)

// AmadeusFlights searches live flights via the Amadeus Flight Offers
// API. It holds a cached OAuth2 client-credentials token and refreshes
// it on expiry; the client is safe for concurrent use.
type AmadeusFlights struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewAmadeusFlights builds a client against the Amadeus test
// environment. The token is fetched lazily on first search.
func NewAmadeusFlights(clientID, clientSecret string) *AmadeusFlights {
	return &AmadeusFlights{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      amadeusTestBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Search queries round-trip flight offers and normalizes them into
// canonical flights, sorted by price with the budget cap applied.
func (a *AmadeusFlights) Search(ctx context.Context, q FlightQuery) ([]types.Flight, error) {
	if a.clientID == "" || a.clientSecret == "" {
		return nil, fmt.Errorf("amadeus credentials not configured")
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartDate)
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}
	adults := q.Passengers
	if adults < 1 {
		adults = 1
	}
	params.Set("adults", strconv.Itoa(adults))
	params.Set("currencyCode", "USD")
	params.Set("max", strconv.Itoa(amadeusMaxOffers))

	body, err := a.get(ctx, amadeusOffersPath+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	flights, err := parseFlightOffers(body)
	if err != nil {
		return nil, err
	}
	sortFlights(flights)
	return applyFlightBudget(flights, q.Budget), nil
}

func (a *AmadeusFlights) get(ctx context.Context, path string) ([]byte, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("amadeus returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// token returns the cached access token, refreshing it when expired.
func (a *AmadeusFlights) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+amadeusTokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	a.accessToken = payload.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - amadeusTokenSlack)
	return a.accessToken, nil
}

type amadeusOffersResponse struct {
	Data []amadeusOffer `json:"data"`
}

type amadeusOffer struct {
	Price struct {
		Total      string `json:"total"`
		GrandTotal string `json:"grandTotal"`
		Currency   string `json:"currency"`
	} `json:"price"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
	Itineraries            []struct {
		Segments []struct {
			CarrierCode string `json:"carrierCode"`
			Departure   struct {
				At string `json:"at"`
			} `json:"departure"`
			Arrival struct {
				At string `json:"at"`
			} `json:"arrival"`
		} `json:"segments"`
	} `json:"itineraries"`
}

// parseFlightOffers normalizes raw Amadeus offers. Offers without a
// parsable price or an outbound itinerary are skipped rather than
// failing the whole search.
func parseFlightOffers(body []byte) ([]types.Flight, error) {
	var payload amadeusOffersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse flight offers: %w", err)
	}

	flights := make([]types.Flight, 0, len(payload.Data))
	for _, offer := range payload.Data {
		priceText := offer.Price.GrandTotal
		if priceText == "" {
			priceText = offer.Price.Total
		}
		price, err := strconv.ParseFloat(priceText, 64)
		if err != nil || price <= 0 {
			continue
		}
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}

		outbound := offer.Itineraries[0].Segments
		airline := outbound[0].CarrierCode
		if airline == "" && len(offer.ValidatingAirlineCodes) > 0 {
			airline = offer.ValidatingAirlineCodes[0]
		}
		if airline == "" {
			airline = "Unknown"
		}
		currency := offer.Price.Currency
		if currency == "" {
			currency = "USD"
		}

		flights = append(flights, types.Flight{
			Airline:   airline,
			Departure: outbound[0].Departure.At,
			Arrival:   outbound[len(outbound)-1].Arrival.At,
			Price:     types.Round2(price),
			Currency:  currency,
			Stops:     len(outbound) - 1,
		})
	}
	return flights, nil
}
