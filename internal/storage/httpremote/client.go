package httpremote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage"
)

const maxResponseBytes = 4 << 20

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to a droplet persistence service over HTTP
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

// IsURL reports whether target addresses an HTTP persistence service
func IsURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: constants.DefaultRemoteTimeout}
		return
	}
	c.http = client
}

func (c *Client) Init() error { return c.Load() }

// Load checks the service is reachable
func (c *Client) Load() error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultRemoteTimeout)
	defer cancel()
	return c.Health(ctx)
}

func (c *Client) Close() error { return nil }

func (c *Client) GetConfigPath() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "http"
	}
	return u.Scheme + "://" + u.Host
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call persistence service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound && method == http.MethodDelete {
		return storage.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("persistence service returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("persistence service returned %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Health calls GET /api/health
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}

func (c *Client) FetchHistory(ctx context.Context, identity string) ([]models.FootprintRecord, error) {
	var records []models.FootprintRecord
	if err := c.do(ctx, http.MethodGet, "/api/history", url.Values{"user_id": {identity}}, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.FootprintRecord{}
	}
	return records, nil
}

func (c *Client) CommitHistory(ctx context.Context, identity string, rec models.FootprintRecord) (models.FootprintRecord, error) {
	body := map[string]any{"user_id": identity, "item": rec}

	var stored models.FootprintRecord
	if err := c.do(ctx, http.MethodPost, "/api/history", nil, body, &stored); err != nil {
		return models.FootprintRecord{}, err
	}
	if stored.ID == "" {
		return models.FootprintRecord{}, fmt.Errorf("persistence service returned a record without an id")
	}
	return stored, nil
}

func (c *Client) DeleteHistory(ctx context.Context, identity, recordID string) error {
	path := "/api/history/" + url.PathEscape(recordID)
	return c.do(ctx, http.MethodDelete, path, url.Values{"user_id": {identity}}, nil, nil)
}

var _ storage.RemoteStore = (*Client)(nil)
