// Package amadeus provides a minimal client for the Amadeus travel
// analytics APIs used by the ingestion pipeline.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL points at the Amadeus test environment
	DefaultBaseURL = "https://test.api.amadeus.com"

	tokenPath    = "/v1/security/oauth2/token"
	traveledPath = "/v1/travel/analytics/air-traffic/traveled"
	bookedPath   = "/v1/travel/analytics/air-traffic/booked"
	busiestPath  = "/v1/travel/analytics/air-traffic/busiest-period"

	// tokens are refreshed this long before their reported expiry
	expirySlack = 60 * time.Second
)

// Credential is an OAuth2 access token with its expiry time.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the credential needs refreshing.
func (c Credential) Expired(now time.Time) bool {
	return c.Token == "" || !now.Add(expirySlack).Before(c.ExpiresAt)
}

// Destination is one ranked destination returned by the traffic analytics
// endpoints.
type Destination struct {
	IATACode string
	Score    float64
}

// Client calls the Amadeus travel analytics APIs using the OAuth2
// client-credentials flow. It is safe for concurrent use.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu   sync.Mutex
	cred Credential
}

// NewClient creates a new Amadeus client. baseURL may be empty, in which
// case the test environment is used.
func NewClient(baseURL, clientID, clientSecret string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// MostTraveledDestinations returns destinations ranked by traveler volume
// from the given origin city.
func (c *Client) MostTraveledDestinations(ctx context.Context, originCityCode string) ([]Destination, error) {
	return c.trafficQuery(ctx, traveledPath, originCityCode)
}

// MostBookedDestinations returns destinations ranked by booking volume
// from the given origin city.
func (c *Client) MostBookedDestinations(ctx context.Context, originCityCode string) ([]Destination, error) {
	return c.trafficQuery(ctx, bookedPath, originCityCode)
}

// BusiestPeriod is one month's traffic score for a city.
type BusiestPeriod struct {
	Period string
	Score  float64
}

// BusiestTravelPeriod returns the monthly traffic profile for a city in the
// given year.
func (c *Client) BusiestTravelPeriod(ctx context.Context, cityCode string, year int) ([]BusiestPeriod, error) {
	params := url.Values{}
	params.Set("cityCode", cityCode)
	params.Set("period", fmt.Sprintf("%d", year))
	params.Set("direction", "ARRIVING")

	body, err := c.get(ctx, busiestPath, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			Period    string `json:"period"`
			Analytics struct {
				Travelers struct {
					Score float64 `json:"score"`
				} `json:"travelers"`
			} `json:"analytics"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode busiest period response: %w", err)
	}

	out := make([]BusiestPeriod, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, BusiestPeriod{Period: d.Period, Score: d.Analytics.Travelers.Score})
	}
	return out, nil
}

func (c *Client) trafficQuery(ctx context.Context, path, originCityCode string) ([]Destination, error) {
	params := url.Values{}
	params.Set("originCityCode", originCityCode)
	params.Set("period", time.Now().AddDate(0, -2, 0).Format("2006-01"))
	params.Set("max", "10")

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			Destination string `json:"destination"`
			Analytics   struct {
				Travelers struct {
					Score float64 `json:"score"`
				} `json:"travelers"`
			} `json:"analytics"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode traffic response: %w", err)
	}

	out := make([]Destination, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, Destination{IATACode: d.Destination, Score: d.Analytics.Travelers.Score})
	}
	return out, nil
}

// get performs an authenticated GET with retry on transient failures.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	var body []byte
	err := Retry(ctx, 3, time.Second, func() error {
		token, err := c.token(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			c.invalidate()
			return fmt.Errorf("amadeus: unauthorized")
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("amadeus: %s returned %d", path, resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	return body, err
}

// token returns a valid access token, refreshing it when expired.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cred.Expired(time.Now()) {
		return c.cred.Token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("amadeus: token request returned %d", resp.StatusCode)
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("amadeus: decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("amadeus: empty access token")
	}

	c.cred = Credential{
		Token:     tr.AccessToken,
		ExpiresAt: time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}
	return c.cred.Token, nil
}

func (c *Client) invalidate() {
	c.mu.Lock()
	c.cred = Credential{}
	c.mu.Unlock()
}
