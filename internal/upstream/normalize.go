// Package upstream holds the typed clients for the services this
// orchestrator depends on, and the normalizer that maps their idiosyncratic
// failure shapes onto the service's single error taxonomy.
package upstream

import (
	"encoding/json"
	"net/http"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/httpclient"
)

// Logical upstream names, used as metrics targets and error source tags.
const (
	SourcePaymentStorage         = "payment_storage"
	SourceTokenization           = "tokenization"
	SourceAppStorage             = "application_storage"
	SourceProviderConfigurations = "provider_configurations"
	SourceRiskProvider           = "risk_provider"
)

// Payment-storage error codes that map onto their own transport statuses.
const (
	errCodeInvalidPaymentID = "InvalidPaymentId"
	errCodePaymentNotFound  = "PaymentNotFound"
	errCodeActionNotFound   = "ActionNotFound"
)

// Sentinel message the provider-configurations service returns for an
// unknown configuration id.
const configurationNotFoundMessage = "Configuration not found"

const serviceUnavailableText = "Service Unavailable"

// upstreamErrorBody is the loose shape shared by upstream error responses.
// details is string-or-array depending on the service, so it is coerced.
type upstreamErrorBody struct {
	Message   string          `json:"message"`
	Details   json.RawMessage `json:"details"`
	ErrorCode string          `json:"error_code"`
}

func (b *upstreamErrorBody) detailStrings() []string {
	if len(b.Details) == 0 {
		return nil
	}
	var many []string
	if err := json.Unmarshal(b.Details, &many); err == nil {
		return many
	}
	var one string
	if err := json.Unmarshal(b.Details, &one); err == nil {
		return []string{one}
	}
	return []string{string(b.Details)}
}

// NormalizeFailure maps a raw upstream failure onto a *domain.Error. Exactly
// one of resp / transportErr is expected; a nil resp means the call failed at
// the transport level. The mapping is priority-ordered and a pure function of
// (status, body, source).
func NormalizeFailure(resp *httpclient.Response, transportErr error, source string) *domain.Error {
	if resp == nil {
		detail := "unexpected error"
		if transportErr != nil {
			detail = transportErr.Error()
		}
		return domain.NewUpstreamError(source, http.StatusInternalServerError, "", detail)
	}

	var body upstreamErrorBody
	_ = json.Unmarshal(resp.Body, &body) // best effort; malformed bodies fall through

	if source == SourcePaymentStorage {
		if normalized := normalizePaymentStorage(resp.StatusCode, &body, source); normalized != nil {
			return normalized
		}
	}

	if source == SourceProviderConfigurations {
		switch {
		case resp.StatusCode == http.StatusServiceUnavailable:
			return domain.NewUpstreamError(source, http.StatusInternalServerError, body.Message, body.detailStrings()...)
		case resp.StatusCode == http.StatusNotFound && body.Message == configurationNotFoundMessage:
			e := domain.NewValidationError(body.Message, body.detailStrings()...)
			e.Source = source
			return e
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.NewUpstreamError(source, http.StatusNotFound, body.Message)
	case http.StatusServiceUnavailable:
		details := body.detailStrings()
		if len(details) == 0 {
			details = []string{serviceUnavailableText}
		}
		moreInfo := body.Message
		if moreInfo == "" {
			moreInfo = serviceUnavailableText
		}
		return domain.NewUpstreamError(source, http.StatusServiceUnavailable, moreInfo, details...)
	default:
		return domain.NewUpstreamError(source, http.StatusInternalServerError, compactJSON(resp.Body))
	}
}

// normalizePaymentStorage handles the error codes payment storage encodes in
// its bodies. Unrecognized shapes return nil and fall through to the generic
// ladder.
func normalizePaymentStorage(status int, body *upstreamErrorBody, source string) *domain.Error {
	invalidID := status == http.StatusBadRequest && body.ErrorCode == errCodeInvalidPaymentID
	notFound := status == http.StatusNotFound &&
		(body.ErrorCode == errCodePaymentNotFound || body.ErrorCode == errCodeActionNotFound)

	if !invalidID && !notFound {
		return nil
	}
	return &domain.Error{
		Kind:       domain.KindUpstream,
		StatusCode: status,
		Details:    body.detailStrings(),
		Source:     source,
	}
}

func compactJSON(b []byte) string {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(b)
	}
	return string(out)
}
