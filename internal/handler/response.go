package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
)

// errorResponse is the fixed merchant-facing error contract.
type errorResponse struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	MoreInfo    any    `json:"more_info,omitempty"` // string or []string
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// RespondError renders any error from the core. Errors outside the domain
// taxonomy are masked as a plain 500.
func RespondError(w http.ResponseWriter, err error) {
	var domErr *domain.Error
	if !errors.As(err, &domErr) {
		slog.Error("unclassified error reached the handler", "error", err)
		RespondServerError(w)
		return
	}

	category, description := categorize(domErr.StatusCode)

	var moreInfo any
	switch {
	case domErr.MoreInfo != "":
		moreInfo = domErr.MoreInfo
	case len(domErr.Details) > 0:
		moreInfo = domErr.Details
	}

	RespondJSON(w, domErr.StatusCode, errorResponse{
		Category:    category,
		Description: description,
		MoreInfo:    moreInfo,
	})
}

func RespondServerError(w http.ResponseWriter) {
	RespondJSON(w, http.StatusInternalServerError, errorResponse{
		Category:    "server_error",
		Description: "Server encountered an error.",
	})
}

func categorize(status int) (category, description string) {
	switch {
	case status == http.StatusNotFound:
		return "api_request_error", "The resource was not found."
	case status == http.StatusConflict:
		return "api_request_error", "There was a conflict with the resource's current state."
	case status >= 400 && status < 500:
		return "api_request_error", "One or more request parameters are invalid."
	case status == http.StatusServiceUnavailable:
		return "provider_error", "The provider is currently unavailable. Try again later."
	default:
		return "server_error", "Server encountered an error."
	}
}
