// Package recognition asks a footprint recognition service to identify an item from a text query.
package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/models"
)

const maxResponseBytes = 1 << 20

var (
	ErrEmptyQuery    = stderrors.New("no image or text provided")
	ErrNotRecognized = stderrors.New("item not recognized")
	ErrNoServiceURL  = stderrors.New("recognition service url not configured")
)

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	baseURL string
	http    httpDoer
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: constants.DefaultRemoteTimeout},
	}
}

func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: constants.DefaultRemoteTimeout}
		return
	}
	c.http = client
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeError struct {
	Error string `json:"error"`
}

// Recognize posts query to /api/footprint and returns the recognised item as an
// unsaved record. The timestamp is left empty for the committer to stamp.
func (c *Client) Recognize(ctx context.Context, query string) (models.FootprintRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.FootprintRecord{}, ErrEmptyQuery
	}
	if c.baseURL == "" {
		return models.FootprintRecord{}, ErrNoServiceURL
	}

	body, err := json.Marshal(analyzeRequest{Text: query})
	if err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/footprint", bytes.NewReader(body))
	if err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to reach recognition service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr analyzeError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return models.FootprintRecord{}, fmt.Errorf("recognition failed (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return models.FootprintRecord{}, fmt.Errorf("recognition failed with status %d", resp.StatusCode)
	}

	var rec models.FootprintRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to decode recognition result: %w", err)
	}
	if strings.TrimSpace(rec.ItemName) == "" {
		return models.FootprintRecord{}, ErrNotRecognized
	}

	// the service never owns persistence fields
	rec.ID = ""
	rec.Timestamp = ""
	if rec.Unit == "" {
		rec.Unit = constants.LitersUnit
	}
	return rec, nil
}
