// Package postgrest is a thin client for a PostgREST-style REST interface
// over Postgres (Supabase's rest/v1 endpoint). It is the single storage
// transport for the application; repositories build on it.
package postgrest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a PostgREST client authenticated with a service key
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new PostgREST client
func NewClient(url, serviceKey string) *Client {
	return &Client{
		URL:        url,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ServiceKey))
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("postgrest error (%d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Query executes a filtered select on a table. Filters use PostgREST
// operator syntax, e.g. {"route_id": "eq.<id>", "order": "date.desc"}.
func (c *Client) Query(table string, query map[string]interface{}) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	for key, value := range query {
		q.Add(key, fmt.Sprintf("%v", value))
	}
	req.URL.RawQuery = q.Encode()

	c.setHeaders(req)

	return c.do(req)
}

// Insert inserts one record or a slice of records into a table and returns
// the stored representation.
func (c *Client) Insert(table string, data interface{}) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	return c.do(req)
}

// Upsert inserts records, replacing existing rows that collide on the
// onConflict key columns (last-writer-wins).
func (c *Client) Upsert(table string, data interface{}, onConflict string) ([]byte, error) {
	return c.upsert(table, data, onConflict, "resolution=merge-duplicates")
}

// InsertIgnoreDuplicates inserts records, silently skipping rows that
// collide on the onConflict key columns (first-writer-wins). The returned
// representation contains only the rows that were actually inserted.
func (c *Client) InsertIgnoreDuplicates(table string, data interface{}, onConflict string) ([]byte, error) {
	return c.upsert(table, data, onConflict, "resolution=ignore-duplicates")
}

func (c *Client) upsert(table string, data interface{}, onConflict, resolution string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	if onConflict != "" {
		q.Add("on_conflict", onConflict)
	}
	req.URL.RawQuery = q.Encode()

	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", fmt.Sprintf("return=representation,%s", resolution))

	return c.do(req)
}

// UpdateWhere updates all rows matching the query filters
func (c *Client) UpdateWhere(table string, query map[string]interface{}, data interface{}) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	for key, value := range query {
		q.Add(key, fmt.Sprintf("%v", value))
	}
	req.URL.RawQuery = q.Encode()

	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	return c.do(req)
}

// DeleteWhere deletes all rows matching the query filters
func (c *Client) DeleteWhere(table string, query map[string]interface{}) error {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	q := req.URL.Query()
	for key, value := range query {
		q.Add(key, fmt.Sprintf("%v", value))
	}
	req.URL.RawQuery = q.Encode()

	c.setHeaders(req)

	_, err = c.do(req)
	return err
}
