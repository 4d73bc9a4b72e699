// Package launches fetches the upcoming-launch snapshot and decides which
// launches lift off soon enough to be worth an alert.
package launches

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"launch-notifier/model"
)

// StatusError is returned by Fetch when the source answers with anything but 200.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("launch source returned %s", e.Status)
}

// Reason is the status text without the numeric code, e.g. "Internal Server Error".
func (e *StatusError) Reason() string {
	return http.StatusText(e.Code)
}

type Client struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
}

func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     logger,
	}
}

// Fetch returns the current snapshot of upcoming launches.
func (c *Client) Fetch(ctx context.Context) ([]model.Launch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get launches: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var list model.LaunchList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode launches: %w", err)
	}

	c.logger.Debug("launches fetched", slog.Int("count", len(list.Result)))
	return list.Result, nil
}
