package domain

import (
	"encoding/json"
	"strings"
)

const ProviderTypeRisk = "risk_provider"

// ProviderConfiguration identifies which fraud-detection provider a merchant
// uses, resolved from an opaque configuration id.
type ProviderConfiguration struct {
	ID           string `json:"id"`
	ProviderName string `json:"provider_name"`
	ProviderType string `json:"provider_type"`
}

// CreateRiskRequest is the caller's body for POST risk-analyses. Known
// fields are typed; everything else is retained verbatim in Extra and
// forwarded to the provider untouched.
type CreateRiskRequest struct {
	PaymentMethod        *PaymentMethod
	ProviderSpecificData map[string]json.RawMessage
	Extra                map[string]json.RawMessage
}

func (r *CreateRiskRequest) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if raw, ok := fields["payment_method"]; ok {
		if err := json.Unmarshal(raw, &r.PaymentMethod); err != nil {
			return err
		}
		delete(fields, "payment_method")
	}
	if raw, ok := fields["provider_specific_data"]; ok {
		if err := json.Unmarshal(raw, &r.ProviderSpecificData); err != nil {
			return err
		}
		delete(fields, "provider_specific_data")
	}
	r.Extra = fields
	return nil
}

// RiskAnalysisRequest is the envelope sent to the risk provider.
type RiskAnalysisRequest struct {
	RiskData                map[string]json.RawMessage `json:"risk_data"`
	PaymentResource         json.RawMessage            `json:"payment_resource"`
	ProviderConfigurationID string                     `json:"provider_configuration_id"`
}

// RiskAnalysisResource is the merchant-facing risk analysis. Provider-shaped
// sub-documents pass through as raw JSON.
type RiskAnalysisResource struct {
	ID                    string          `json:"id,omitempty"`
	Created               string          `json:"created,omitempty"`
	PaymentMethod         json.RawMessage `json:"payment_method,omitempty"`
	TransactionType       string          `json:"transaction_type,omitempty"`
	SessionID             string          `json:"session_id,omitempty"`
	DeviceID              string          `json:"device_id,omitempty"`
	Merchant              json.RawMessage `json:"merchant,omitempty"`
	Result                json.RawMessage `json:"result,omitempty"`
	ProviderConfiguration json.RawMessage `json:"provider_configuration,omitempty"`
	ProviderData          json.RawMessage `json:"provider_data,omitempty"`
	IPAddress             string          `json:"ip_address,omitempty"`
	AdditionalDetails     json.RawMessage `json:"additional_details,omitempty"`
}

// NormalizeProviderName lower-cases a provider name and strips underscores
// and hyphens. Callers key provider_specific_data by provider name in
// arbitrary casing; this matching rule is an external contract and must not
// change.
func NormalizeProviderName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}

// SelectProviderSpecificData picks the caller-supplied payload whose key
// matches the resolved provider's normalized name.
func SelectProviderSpecificData(data map[string]json.RawMessage, providerName string) (json.RawMessage, bool) {
	want := NormalizeProviderName(providerName)
	for key, payload := range data {
		if NormalizeProviderName(key) == want {
			return payload, true
		}
	}
	return nil, false
}
