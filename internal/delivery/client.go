// Package delivery implements a client for the delivery company's merchant
// API: token-based login plus city and region lookups. The token is cached
// and refreshed once when the API reports it expired. Calls carry a timeout
// and are never retried automatically.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"matjar/internal/models"
)

// Client talks to the delivery company's merchant API.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewClient creates a client for the given merchant API endpoint.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// apiResponse is the envelope every merchant API endpoint uses.
type apiResponse struct {
	Status bool            `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

type loginData struct {
	Token string `json:"token"`
}

// rawCity is a city entry as the merchant API returns it.
type rawCity struct {
	ID            string `json:"id"`
	CityName      string `json:"city_name"`
	DeliveryPrice int    `json:"delivery_price,string"`
}

// Region is one area inside a city, as the merchant API returns it.
type Region struct {
	ID         string `json:"id"`
	RegionName string `json:"region_name"`
}

// login obtains a fresh token. Credentials go as form data, matching the
// merchant API.
func (c *Client) login(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("delivery company login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("delivery company login: unexpected status %d", resp.StatusCode)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if !envelope.Status {
		return "", fmt.Errorf("delivery company login rejected: %s", envelope.Msg)
	}
	var data loginData
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data.Token == "" {
		return "", fmt.Errorf("delivery company login returned no token")
	}
	return data.Token, nil
}

// getToken returns the cached token, logging in when none is held.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.login(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// invalidateToken drops the cached token so the next call logs in again.
func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// get calls an authenticated GET endpoint and unmarshals the data payload.
// An unauthorized response invalidates the cached token and the call is
// repeated once with a fresh one.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.getToken(ctx)
		if err != nil {
			return err
		}

		query := url.Values{}
		for k, vs := range params {
			query[k] = vs
		}
		query.Set("token", token)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+path+"?"+query.Encode(), nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("delivery company request: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			c.invalidateToken()
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("delivery company request: unexpected status %d", resp.StatusCode)
		}

		var envelope apiResponse
		err = json.NewDecoder(resp.Body).Decode(&envelope)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if !envelope.Status {
			return fmt.Errorf("delivery company rejected request: %s", envelope.Msg)
		}
		return json.Unmarshal(envelope.Data, out)
	}
	return fmt.Errorf("delivery company request: token expired")
}

// Cities fetches the city list and maps it into the local city model.
func (c *Client) Cities(ctx context.Context) ([]models.City, error) {
	var raw []rawCity
	if err := c.get(ctx, "/citys", nil, &raw); err != nil {
		return nil, err
	}
	cities := make([]models.City, 0, len(raw))
	for _, rc := range raw {
		cities = append(cities, models.City{
			CompanyCityID:   rc.ID,
			CompanyCityName: rc.CityName,
			DisplayName:     rc.CityName,
			DeliveryFee:     rc.DeliveryPrice,
		})
	}
	return cities, nil
}

// Regions fetches the areas of one city.
func (c *Client) Regions(ctx context.Context, cityID string) ([]Region, error) {
	params := url.Values{}
	params.Set("city_id", cityID)
	var regions []Region
	if err := c.get(ctx, "/regions", params, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}
