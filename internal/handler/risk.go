package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/logging"
)

type riskService interface {
	CreateRisk(ctx context.Context, paymentID string, req *domain.CreateRiskRequest, id domain.Identity, hdr http.Header) (*domain.RiskAnalysisResource, error)
	GetRiskAnalyses(ctx context.Context, paymentID string, hdr http.Header) ([]domain.RiskAnalysisResource, error)
	GetRiskAnalysisByID(ctx context.Context, paymentID, riskID string, hdr http.Header) (*domain.RiskAnalysisResource, error)
}

type RiskHandler struct {
	risks riskService
}

func NewRiskHandler(risks riskService) *RiskHandler {
	return &RiskHandler{risks: risks}
}

// identityFromHeader pulls the trusted gateway headers into a typed struct.
// Missing headers stay empty and fail the relevant validation downstream.
func identityFromHeader(h http.Header) domain.Identity {
	return domain.Identity{
		AccountID:         h.Get(domain.HeaderAccountID),
		AppName:           h.Get(domain.HeaderAppName),
		RequestID:         h.Get(domain.HeaderRequestID),
		AccessEnvironment: h.Get(domain.HeaderAccessEnvironment),
		IdempotencyKey:    h.Get(domain.HeaderIdempotency),
		ClientIP:          h.Get(domain.HeaderClientIPAddress),
	}
}

func (h *RiskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	paymentID := chi.URLParam(r, "payment_id")

	var req domain.CreateRiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, domain.NewValidationError("Request body is not valid JSON"))
		return
	}

	resource, err := h.risks.CreateRisk(r.Context(), paymentID, &req, identityFromHeader(r.Header), r.Header)
	if err != nil {
		log.Warn("risk analysis creation failed", "payment_id", paymentID, "error", err)
		RespondError(w, err)
		return
	}

	w.Header().Set("Self", fmt.Sprintf("/payments/%s/risk-analyses/%s", paymentID, resource.ID))
	RespondJSON(w, http.StatusCreated, resource)
}

func (h *RiskHandler) List(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")

	analyses, err := h.risks.GetRiskAnalyses(r.Context(), paymentID, r.Header)
	if err != nil {
		logging.FromContext(r.Context()).Warn("risk analyses lookup failed", "payment_id", paymentID, "error", err)
		RespondError(w, err)
		return
	}
	if analyses == nil {
		analyses = []domain.RiskAnalysisResource{}
	}

	RespondJSON(w, http.StatusOK, analyses)
}

func (h *RiskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")
	riskID := chi.URLParam(r, "risk_analyses_id")

	analysis, err := h.risks.GetRiskAnalysisByID(r.Context(), paymentID, riskID, r.Header)
	if err != nil {
		logging.FromContext(r.Context()).Warn("risk analysis lookup failed",
			"payment_id", paymentID, "risk_analysis_id", riskID, "error", err)
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, analysis)
}
