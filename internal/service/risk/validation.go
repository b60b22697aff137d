package risk

import (
	"fmt"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
)

const (
	paymentConflictDetail   = "Please check the current state of the payment."
	paymentConflictMoreInfo = "There was conflict with payment resource current state."
	appIDNotFoundMessage    = "App_id that is related to the payment was not found"
	wrongProviderTypeFormat = "Provider configuration %s is not of a risk provider"
	actionCeilingFormat     = "Risk analyses cannot be created for a payment with %d or more actions"
)

// validateOwnership compares the payment's owning application and merchant
// against the caller identity. A mismatch is reported as not-found rather
// than forbidden so the payment's existence is not confirmed to the wrong
// tenant.
func validateOwnership(p *domain.PaymentResource, id domain.Identity) error {
	if p.ApplicationID != id.AppName || p.MerchantID != id.AccountID {
		return domain.NewNotFoundError(appIDNotFoundMessage, appIDNotFoundMessage)
	}
	return nil
}

func validatePaymentState(p *domain.PaymentResource) error {
	if !p.EligibleForRisk() {
		return domain.NewConflictError(paymentConflictMoreInfo, paymentConflictDetail)
	}
	return nil
}

func validateActionCount(p *domain.PaymentResource, maxActions int) error {
	if p.ActionCount() >= maxActions {
		return domain.NewValidationError(fmt.Sprintf(actionCeilingFormat, maxActions))
	}
	return nil
}

func validateProviderType(cfg *domain.ProviderConfiguration) error {
	if cfg.ProviderType != domain.ProviderTypeRisk {
		return domain.NewValidationError(fmt.Sprintf(wrongProviderTypeFormat, cfg.ID))
	}
	return nil
}
