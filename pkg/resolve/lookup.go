package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/wrenhall/realmlog/pkg/catalog"
)

// CatalogLookup resolves names directly against an in-process catalog.
type CatalogLookup struct {
	Catalog catalog.Catalog
}

func (l CatalogLookup) Find(_ context.Context, name string) (*catalog.ItemRecord, bool, error) {
	rec, ok := l.Catalog.Find(name)
	return rec, ok, nil
}

// HTTPLookup resolves names against a remote lookup service (the /api/items
// endpoint another realmlog instance serves). 404 is a legitimate miss.
type HTTPLookup struct {
	BaseURL string
	client  *retryablehttp.Client
}

// NewHTTPLookup builds a lookup client for the service at baseURL.
func NewHTTPLookup(baseURL string) *HTTPLookup {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	return &HTTPLookup{BaseURL: baseURL, client: client}
}

func (l *HTTPLookup) Find(ctx context.Context, name string) (*catalog.ItemRecord, bool, error) {
	reqURL := fmt.Sprintf("%s/api/items?name=%s", l.BaseURL, url.QueryEscape(name))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("lookup service returned status %d for %q", resp.StatusCode, name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	if !gjson.GetBytes(body, "name").Exists() {
		return nil, false, fmt.Errorf("lookup service returned a body without a name for %q", name)
	}

	var rec catalog.ItemRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, false, fmt.Errorf("decoding lookup response for %q: %w", name, err)
	}
	return &rec, true, nil
}
