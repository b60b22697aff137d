package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/httpclient"
)

const serviceNamePlaceholder = "{SERVICE_NAME}"

// RiskProviderClient sends risk-assessment requests to the configured fraud
// provider. The provider is addressed through a URL template whose
// {SERVICE_NAME} segment resolves to risk-{environment}-{provider name}.
type RiskProviderClient struct {
	urlTemplate string
	environment string
	timeout     time.Duration
	http        *httpclient.Client
}

func NewRiskProviderClient(urlTemplate, environment string, timeout time.Duration, hc *httpclient.Client) *RiskProviderClient {
	return &RiskProviderClient{
		urlTemplate: urlTemplate,
		environment: environment,
		timeout:     timeout,
		http:        hc,
	}
}

// providerRiskResponse is the provider's wire shape; a few fields are renamed
// on the merchant-facing resource.
type providerRiskResponse struct {
	ID                    string          `json:"id"`
	ActionTime            string          `json:"action_time"`
	PaymentMethod         json.RawMessage `json:"payment_method"`
	TransactionType       string          `json:"transaction_type"`
	SessionID             string          `json:"session_id"`
	DeviceID              string          `json:"device_id"`
	Merchant              json.RawMessage `json:"merchant"`
	ResultData            json.RawMessage `json:"result_data"`
	ProviderConfiguration json.RawMessage `json:"provider_configuration"`
	ProviderData          json.RawMessage `json:"provider_data"`
	IPAddress             string          `json:"ip_address"`
	AdditionalDetails     json.RawMessage `json:"additional_details"`
}

func (c *RiskProviderClient) CreateRisk(
	ctx context.Context,
	payment *domain.PaymentResource,
	req *domain.CreateRiskRequest,
	pm *domain.PaymentMethod,
	providerCfg *domain.ProviderConfiguration,
	id domain.Identity,
	hdr http.Header,
) (*domain.RiskAnalysisResource, error) {
	envelope := domain.RiskAnalysisRequest{
		RiskData:                buildRiskData(req, pm, id.ClientIP, providerCfg.ProviderName),
		PaymentResource:         payment.Raw,
		ProviderConfigurationID: providerCfg.ID,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshal risk request: %w", err)
	}

	idempotencyKey := id.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	header := PassThroughHeaders(hdr)
	header.Set(domain.HeaderIdempotency, idempotencyKey)
	header.Set(domain.HeaderAPIVersion, paymentServiceAPIVersion)
	if id.RequestID != "" {
		header.Set(domain.HeaderRequestID, id.RequestID)
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.buildURL(providerCfg.ProviderName, payment.ID),
		Header:  header,
		Body:    body,
		Target:  SourceRiskProvider,
		Route:   "/payments/:payment_id/risk-analyses",
		Timeout: c.timeout,
	})
	if err != nil {
		return nil, NormalizeFailure(nil, err, SourceRiskProvider)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, NormalizeFailure(resp, nil, SourceRiskProvider)
	}

	var provider providerRiskResponse
	if err := json.Unmarshal(resp.Body, &provider); err != nil {
		return nil, NormalizeFailure(nil, fmt.Errorf("decode risk response: %w", err), SourceRiskProvider)
	}

	return &domain.RiskAnalysisResource{
		ID:                    provider.ID,
		Created:               provider.ActionTime,
		PaymentMethod:         provider.PaymentMethod,
		TransactionType:       provider.TransactionType,
		SessionID:             provider.SessionID,
		DeviceID:              provider.DeviceID,
		Merchant:              provider.Merchant,
		Result:                provider.ResultData,
		ProviderConfiguration: provider.ProviderConfiguration,
		ProviderData:          provider.ProviderData,
		IPAddress:             provider.IPAddress,
		AdditionalDetails:     provider.AdditionalDetails,
	}, nil
}

func (c *RiskProviderClient) buildURL(providerName, paymentID string) string {
	serviceName := fmt.Sprintf("risk-%s-%s", c.environment, providerName)
	base := strings.Replace(c.urlTemplate, serviceNamePlaceholder, serviceName, 1)
	return fmt.Sprintf("%s/payments/%s/risk-analyses", base, paymentID)
}

// buildRiskData copies the caller's body and overrides the derived fields:
// the provider-shaped payment method, the trusted client ip, and the
// provider_specific_data entry matching the resolved provider.
func buildRiskData(req *domain.CreateRiskRequest, pm *domain.PaymentMethod, clientIP, providerName string) map[string]json.RawMessage {
	riskData := make(map[string]json.RawMessage, len(req.Extra)+3)
	for key, value := range req.Extra {
		riskData[key] = value
	}

	if pm != nil {
		riskData["payment_method"] = rawJSON(pm.ForProvider())
	}
	if clientIP != "" {
		riskData["ip_address"] = rawJSON(clientIP)
	}
	if selected, ok := domain.SelectProviderSpecificData(req.ProviderSpecificData, providerName); ok {
		riskData["provider_specific_data"] = selected
	}
	return riskData
}

// rawJSON is used only for values whose marshaling cannot fail.
func rawJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
