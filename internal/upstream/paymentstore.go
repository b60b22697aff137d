package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/httpclient"
)

const paymentServiceAPIVersion = "1.0"

// PaymentStoreClient reads payment and risk-analysis resources from the
// payment storage service. All operations are idempotent GETs and go through
// the wrapper's default retry policy.
type PaymentStoreClient struct {
	baseURL string
	http    *httpclient.Client
}

func NewPaymentStoreClient(baseURL string, hc *httpclient.Client) *PaymentStoreClient {
	return &PaymentStoreClient{baseURL: baseURL, http: hc}
}

func (c *PaymentStoreClient) GetPayment(ctx context.Context, paymentID string, hdr http.Header) (*domain.PaymentResource, error) {
	resp, err := c.get(ctx,
		fmt.Sprintf("%s/payments/%s", c.baseURL, paymentID),
		"/payments/:payment_id", hdr)
	if err != nil {
		return nil, err
	}

	var payment domain.PaymentResource
	if err := json.Unmarshal(resp.Body, &payment); err != nil {
		return nil, NormalizeFailure(nil, fmt.Errorf("decode payment resource: %w", err), SourcePaymentStorage)
	}
	payment.Raw = resp.Body
	return &payment, nil
}

func (c *PaymentStoreClient) ListRiskAnalyses(ctx context.Context, paymentID string, hdr http.Header) ([]domain.RiskAnalysisResource, error) {
	resp, err := c.get(ctx,
		fmt.Sprintf("%s/payments/%s/risk-analyses", c.baseURL, paymentID),
		"/payments/:payment_id/risk-analyses", hdr)
	if err != nil {
		return nil, err
	}

	var analyses []domain.RiskAnalysisResource
	if err := json.Unmarshal(resp.Body, &analyses); err != nil {
		return nil, NormalizeFailure(nil, fmt.Errorf("decode risk analyses: %w", err), SourcePaymentStorage)
	}
	return analyses, nil
}

func (c *PaymentStoreClient) GetRiskAnalysis(ctx context.Context, paymentID, riskID string, hdr http.Header) (*domain.RiskAnalysisResource, error) {
	resp, err := c.get(ctx,
		fmt.Sprintf("%s/payments/%s/risk-analyses/%s", c.baseURL, paymentID, riskID),
		"/payments/:payment_id/risk-analyses/:risk_analyses_id", hdr)
	if err != nil {
		return nil, err
	}

	var analysis domain.RiskAnalysisResource
	if err := json.Unmarshal(resp.Body, &analysis); err != nil {
		return nil, NormalizeFailure(nil, fmt.Errorf("decode risk analysis: %w", err), SourcePaymentStorage)
	}
	return &analysis, nil
}

func (c *PaymentStoreClient) get(ctx context.Context, url, route string, hdr http.Header) (*httpclient.Response, error) {
	header := PassThroughHeaders(hdr)
	header.Set(domain.HeaderAPIVersion, paymentServiceAPIVersion)

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    url,
		Header: header,
		Target: SourcePaymentStorage,
		Route:  route,
	})
	if err != nil {
		return nil, NormalizeFailure(nil, err, SourcePaymentStorage)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NormalizeFailure(resp, nil, SourcePaymentStorage)
	}
	return resp, nil
}
