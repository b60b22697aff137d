package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
)

type stubRiskService struct {
	created   *domain.RiskAnalysisResource
	createErr error
	gotID     domain.Identity
	gotReq    *domain.CreateRiskRequest

	analyses []domain.RiskAnalysisResource
	listErr  error

	analysis *domain.RiskAnalysisResource
	getErr   error
}

func (s *stubRiskService) CreateRisk(_ context.Context, _ string, req *domain.CreateRiskRequest, id domain.Identity, _ http.Header) (*domain.RiskAnalysisResource, error) {
	s.gotID = id
	s.gotReq = req
	return s.created, s.createErr
}

func (s *stubRiskService) GetRiskAnalyses(_ context.Context, _ string, _ http.Header) ([]domain.RiskAnalysisResource, error) {
	return s.analyses, s.listErr
}

func (s *stubRiskService) GetRiskAnalysisByID(_ context.Context, _, _ string, _ http.Header) (*domain.RiskAnalysisResource, error) {
	return s.analysis, s.getErr
}

func newRiskRouter(svc *stubRiskService) http.Handler {
	h := NewRiskHandler(svc)
	r := chi.NewRouter()
	r.Route("/payments/{payment_id}/risk-analyses", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{risk_analyses_id}", h.GetByID)
	})
	return r
}

func TestCreateReturns201WithSelfHeader(t *testing.T) {
	svc := &stubRiskService{created: &domain.RiskAnalysisResource{ID: "risk-1", TransactionType: "authorize"}}
	router := newRiskRouter(svc)

	body := `{"payment_method":{"type":"tokenized","token":"tok-1"},"session_id":"sess-7"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/pay-1/risk-analyses", strings.NewReader(body))
	req.Header.Set(domain.HeaderAccountID, "acct-1")
	req.Header.Set(domain.HeaderAppName, "app-1")
	req.Header.Set(domain.HeaderClientIPAddress, "10.0.0.9")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/payments/pay-1/risk-analyses/risk-1", rec.Header().Get("Self"))

	var got domain.RiskAnalysisResource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "risk-1", got.ID)

	assert.Equal(t, "acct-1", svc.gotID.AccountID)
	assert.Equal(t, "app-1", svc.gotID.AppName)
	assert.Equal(t, "10.0.0.9", svc.gotID.ClientIP)
	require.NotNil(t, svc.gotReq.PaymentMethod)
	assert.Equal(t, "tok-1", svc.gotReq.PaymentMethod.Token)
	assert.JSONEq(t, `"sess-7"`, string(svc.gotReq.Extra["session_id"]))
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	router := newRiskRouter(&stubRiskService{})

	req := httptest.NewRequest(http.MethodPost, "/payments/pay-1/risk-analyses", strings.NewReader(`{"broken`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "api_request_error", body.Category)
	assert.Equal(t, "One or more request parameters are invalid.", body.Description)
}

func TestCreateRendersErrorEnvelope(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantStatus      int
		wantCategory    string
		wantDescription string
		wantMoreInfo    any
	}{
		{
			name:            "not found hides ownership mismatch",
			err:             domain.NewNotFoundError("App_id that is related to the payment was not found", "App_id that is related to the payment was not found"),
			wantStatus:      http.StatusNotFound,
			wantCategory:    "api_request_error",
			wantDescription: "The resource was not found.",
			wantMoreInfo:    "App_id that is related to the payment was not found",
		},
		{
			name:            "state conflict",
			err:             domain.NewConflictError("There was conflict with payment resource current state.", "Please check the current state of the payment."),
			wantStatus:      http.StatusConflict,
			wantCategory:    "api_request_error",
			wantDescription: "There was a conflict with the resource's current state.",
			wantMoreInfo:    "There was conflict with payment resource current state.",
		},
		{
			name:            "rejected token",
			err:             domain.NewValidationError("Token does not exist."),
			wantStatus:      http.StatusBadRequest,
			wantCategory:    "api_request_error",
			wantDescription: "One or more request parameters are invalid.",
			wantMoreInfo:    "Token does not exist.",
		},
		{
			name:            "upstream details surface when more_info empty",
			err:             domain.NewUpstreamError("payment_storage", http.StatusNotFound, "", "payment does not exist"),
			wantStatus:      http.StatusNotFound,
			wantCategory:    "api_request_error",
			wantDescription: "The resource was not found.",
			wantMoreInfo:    []any{"payment does not exist"},
		},
		{
			name:            "provider unavailable",
			err:             domain.NewUpstreamError("risk_provider", http.StatusServiceUnavailable, "Service Unavailable", "Service Unavailable"),
			wantStatus:      http.StatusServiceUnavailable,
			wantCategory:    "provider_error",
			wantDescription: "The provider is currently unavailable. Try again later.",
			wantMoreInfo:    "Service Unavailable",
		},
		{
			name:            "unclassified error masked as 500",
			err:             errors.New("boom"),
			wantStatus:      http.StatusInternalServerError,
			wantCategory:    "server_error",
			wantDescription: "Server encountered an error.",
			wantMoreInfo:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRiskRouter(&stubRiskService{createErr: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/payments/pay-1/risk-analyses", strings.NewReader(`{}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCategory, body["category"])
			assert.Equal(t, tt.wantDescription, body["description"])
			if tt.wantMoreInfo == nil {
				assert.NotContains(t, body, "more_info")
			} else {
				assert.Equal(t, tt.wantMoreInfo, body["more_info"])
			}
		})
	}
}

func TestListReturnsEmptyArrayNotNull(t *testing.T) {
	router := newRiskRouter(&stubRiskService{analyses: nil})

	req := httptest.NewRequest(http.MethodGet, "/payments/pay-1/risk-analyses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListReturnsAnalyses(t *testing.T) {
	router := newRiskRouter(&stubRiskService{
		analyses: []domain.RiskAnalysisResource{{ID: "r1"}, {ID: "r2"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/payments/pay-1/risk-analyses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []domain.RiskAnalysisResource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
}

func TestGetByIDReturnsResource(t *testing.T) {
	router := newRiskRouter(&stubRiskService{
		analysis: &domain.RiskAnalysisResource{ID: "risk-9", TransactionType: "authorize"},
	})

	req := httptest.NewRequest(http.MethodGet, "/payments/pay-1/risk-analyses/risk-9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.RiskAnalysisResource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "risk-9", got.ID)
}

func TestGetByIDNotFound(t *testing.T) {
	router := newRiskRouter(&stubRiskService{
		getErr: domain.NewUpstreamError("payment_storage", http.StatusNotFound, "risk analysis not found"),
	})

	req := httptest.NewRequest(http.MethodGet, "/payments/pay-1/risk-analyses/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "api_request_error", body.Category)
	assert.Equal(t, "risk analysis not found", body.MoreInfo)
}
