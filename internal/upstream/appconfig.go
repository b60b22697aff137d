package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/httpclient"
)

// AppConfigClient resolves application settings from the apps storage
// service; the orchestrator only needs the default provider id.
type AppConfigClient struct {
	baseURL string
	http    *httpclient.Client
}

func NewAppConfigClient(baseURL string, hc *httpclient.Client) *AppConfigClient {
	return &AppConfigClient{baseURL: baseURL, http: hc}
}

type applicationResponse struct {
	DefaultProvider string `json:"default_provider"`
}

func (c *AppConfigClient) GetDefaultProviderID(ctx context.Context, appName string, hdr http.Header) (string, error) {
	// Only the request id travels here; apps storage has no use for the rest
	// of the caller's headers.
	header := make(http.Header)
	if requestID := hdr.Get(domain.HeaderRequestID); requestID != "" {
		header.Set(domain.HeaderRequestID, requestID)
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v1/applications/%s", c.baseURL, appName),
		Header: header,
		Target: SourceAppStorage,
		Route:  "/v1/applications/:application_name",
	})
	if err != nil {
		return "", NormalizeFailure(nil, err, SourceAppStorage)
	}
	if resp.StatusCode != http.StatusOK {
		return "", NormalizeFailure(resp, nil, SourceAppStorage)
	}

	var app applicationResponse
	if err := json.Unmarshal(resp.Body, &app); err != nil {
		return "", NormalizeFailure(nil, fmt.Errorf("decode application: %w", err), SourceAppStorage)
	}
	return app.DefaultProvider, nil
}
