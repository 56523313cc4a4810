package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/model"
)

const defaultTimeout = 30 * time.Second

// Client implements both collectors against the HTTP metadata service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a collector client with a default HTTP client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPClient creates a collector client using the given
// *http.Client, allowing an instrumented client to be passed in.
func NewClientWithHTTPClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Zones returns the region's near-edge zones in the order the metadata
// service reports them.
func (c *Client) Zones(ctx context.Context, region string) ([]model.Zone, error) {
	var zones []model.Zone
	if err := c.getJSON(ctx, "zone", fmt.Sprintf("/regions/%s/zones", url.PathEscape(region)), &zones); err != nil {
		return nil, err
	}
	log.Debug("Zone collector completed", "region", region, "zones", len(zones))
	return zones, nil
}

// Extensions returns the region's active extension racks.
func (c *Client) Extensions(ctx context.Context, region string) ([]model.Extension, error) {
	var extensions []model.Extension
	if err := c.getJSON(ctx, "extension", fmt.Sprintf("/regions/%s/extensions", url.PathEscape(region)), &extensions); err != nil {
		return nil, err
	}
	log.Debug("Extension collector completed", "region", region, "extensions", len(extensions))
	return extensions, nil
}

func (c *Client) getJSON(ctx context.Context, collector, path string, out any) error {
	targetURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return fmt.Errorf("creating request to %s: %w", targetURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RemoteError{
			Collector: collector,
			Status:    resp.StatusCode,
			Body:      strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", targetURL, err)
	}
	return nil
}
