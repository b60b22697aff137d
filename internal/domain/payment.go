package domain

import "encoding/json"

const (
	PaymentStateInitial    = "payment_initial"
	PaymentStateAuthorized = "authorized"
	PaymentStateNotValid   = "not_valid"
)

type PaymentState struct {
	CurrentState string `json:"current_state"`
}

// PaymentResource is the canonical payment record owned by the payment
// storage service. Raw keeps the untouched upstream body so the resource can
// be forwarded to the risk provider without re-serialization loss.
type PaymentResource struct {
	ID            string                     `json:"id"`
	ApplicationID string                     `json:"application_id"`
	MerchantID    string                     `json:"merchant_id"`
	PaymentState  PaymentState               `json:"payment_state"`
	ActionsByType map[string]json.RawMessage `json:"actions_by_type"`

	Raw json.RawMessage `json:"-"`
}

// ActionCount totals the recorded actions across all action types. An entry
// holding an array counts by its length, a single action object counts as 1.
func (p *PaymentResource) ActionCount() int {
	total := 0
	for _, raw := range p.ActionsByType {
		var actions []json.RawMessage
		if err := json.Unmarshal(raw, &actions); err == nil {
			total += len(actions)
		} else {
			total++
		}
	}
	return total
}

// EligibleForRisk reports whether the payment's current state allows a risk
// analysis to be created.
func (p *PaymentResource) EligibleForRisk() bool {
	state := p.PaymentState.CurrentState
	return state == PaymentStateInitial || state == PaymentStateAuthorized
}
