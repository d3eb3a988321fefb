package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type httpClient struct {
	endpoint string
	key      string
	httpc    *http.Client
}

// NewHTTP talks to a JSON endpoint that answers GET ?location= with a Snapshot.
func NewHTTP(endpoint, key string) Client {
	return &httpClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) FetchWeather(ctx context.Context, location string) (Snapshot, error) {
	u := c.endpoint + "/current?location=" + url.QueryEscape(location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Snapshot{}, err
	}
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return Snapshot{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("weather: status %d", resp.StatusCode)
	}
	var out Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Snapshot{}, fmt.Errorf("weather: decode: %w", err)
	}
	if out.Location == "" {
		out.Location = location
	}
	return out, nil
}
