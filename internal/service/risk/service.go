// Package risk orchestrates the create/get risk-analysis use cases over the
// upstream clients. Calls within one request are sequential; each step feeds
// the next and any validation failure ends the request with a typed error.
package risk

import (
	"context"
	"net/http"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/logging"
)

type PaymentStore interface {
	GetPayment(ctx context.Context, paymentID string, hdr http.Header) (*domain.PaymentResource, error)
	ListRiskAnalyses(ctx context.Context, paymentID string, hdr http.Header) ([]domain.RiskAnalysisResource, error)
	GetRiskAnalysis(ctx context.Context, paymentID, riskID string, hdr http.Header) (*domain.RiskAnalysisResource, error)
}

type Tokenizer interface {
	HandlePaymentMethodToken(ctx context.Context, merchantID string, pm *domain.PaymentMethod, hdr http.Header) (*domain.PaymentMethod, error)
}

type AppConfig interface {
	GetDefaultProviderID(ctx context.Context, appName string, hdr http.Header) (string, error)
}

type ProviderConfig interface {
	GetConfiguration(ctx context.Context, configurationID string, hdr http.Header) (*domain.ProviderConfiguration, error)
}

type RiskProvider interface {
	CreateRisk(ctx context.Context, payment *domain.PaymentResource, req *domain.CreateRiskRequest, pm *domain.PaymentMethod, cfg *domain.ProviderConfiguration, id domain.Identity, hdr http.Header) (*domain.RiskAnalysisResource, error)
}

type Service struct {
	payments   PaymentStore
	tokens     Tokenizer
	apps       AppConfig
	providers  ProviderConfig
	risk       RiskProvider
	maxActions int
}

func NewService(payments PaymentStore, tokens Tokenizer, apps AppConfig, providers ProviderConfig, risk RiskProvider, maxActions int) *Service {
	return &Service{
		payments:   payments,
		tokens:     tokens,
		apps:       apps,
		providers:  providers,
		risk:       risk,
		maxActions: maxActions,
	}
}

// CreateRisk runs the full create flow: fetch payment, validate ownership,
// state and action count, tokenize the payment method if needed, resolve the
// provider configuration, and send the risk request. Nothing upstream is
// mutated before the provider call, so failures need no rollback.
func (s *Service) CreateRisk(ctx context.Context, paymentID string, req *domain.CreateRiskRequest, id domain.Identity, hdr http.Header) (*domain.RiskAnalysisResource, error) {
	log := logging.FromContext(ctx)

	payment, err := s.payments.GetPayment(ctx, paymentID, hdr)
	if err != nil {
		return nil, err
	}

	if err := validateOwnership(payment, id); err != nil {
		return nil, err
	}
	if err := validatePaymentState(payment); err != nil {
		return nil, err
	}
	if err := validateActionCount(payment, s.maxActions); err != nil {
		return nil, err
	}

	pm := req.PaymentMethod
	if pm != nil {
		pm, err = s.tokens.HandlePaymentMethodToken(ctx, id.AccountID, pm, hdr)
		if err != nil {
			return nil, err
		}
	}

	providerID, err := s.apps.GetDefaultProviderID(ctx, id.AppName, hdr)
	if err != nil {
		return nil, err
	}

	providerCfg, err := s.providers.GetConfiguration(ctx, providerID, hdr)
	if err != nil {
		return nil, err
	}
	if err := validateProviderType(providerCfg); err != nil {
		return nil, err
	}

	resource, err := s.risk.CreateRisk(ctx, payment, req, pm, providerCfg, id, hdr)
	if err != nil {
		return nil, err
	}

	log.Info("risk analysis created",
		"payment_id", payment.ID,
		"provider", providerCfg.ProviderName,
		"risk_analysis_id", resource.ID,
	)
	return resource, nil
}

func (s *Service) GetRiskAnalyses(ctx context.Context, paymentID string, hdr http.Header) ([]domain.RiskAnalysisResource, error) {
	return s.payments.ListRiskAnalyses(ctx, paymentID, hdr)
}

func (s *Service) GetRiskAnalysisByID(ctx context.Context, paymentID, riskID string, hdr http.Header) (*domain.RiskAnalysisResource, error) {
	return s.payments.GetRiskAnalysis(ctx, paymentID, riskID, hdr)
}
