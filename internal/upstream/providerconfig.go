package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/httpclient"
)

// ProviderConfigClient resolves provider configurations by their opaque id.
type ProviderConfigClient struct {
	baseURL     string
	environment string
	http        *httpclient.Client
}

func NewProviderConfigClient(baseURL, environment string, hc *httpclient.Client) *ProviderConfigClient {
	return &ProviderConfigClient{baseURL: baseURL, environment: environment, http: hc}
}

func (c *ProviderConfigClient) GetConfiguration(ctx context.Context, configurationID string, hdr http.Header) (*domain.ProviderConfiguration, error) {
	header := PassThroughHeaders(hdr)
	header.Set(domain.HeaderAccessEnvironment, c.environment)

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v1/configurations/%s?ext_info=true&filterConfData=true", c.baseURL, configurationID),
		Header: header,
		Target: SourceProviderConfigurations,
		Route:  "/v1/configurations/:configuration_id",
	})
	if err != nil {
		return nil, NormalizeFailure(nil, err, SourceProviderConfigurations)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NormalizeFailure(resp, nil, SourceProviderConfigurations)
	}

	var cfg domain.ProviderConfiguration
	if err := json.Unmarshal(resp.Body, &cfg); err != nil {
		return nil, NormalizeFailure(nil, fmt.Errorf("decode provider configuration: %w", err), SourceProviderConfigurations)
	}
	if cfg.ID == "" {
		cfg.ID = configurationID
	}
	return &cfg, nil
}
