package domain

const (
	PaymentMethodTokenized   = "tokenized"
	PaymentMethodUntokenized = "untokenized"
	SourceTypeCreditCard     = "credit_card"
)

// PaymentMethod is the tagged union submitted by callers: either an
// untokenized raw card or an opaque token with an optional cvv. Which fields
// are meaningful depends on Type.
type PaymentMethod struct {
	Type       string `json:"type,omitempty"`
	SourceType string `json:"source_type,omitempty"`

	// tokenized variant
	Token         string `json:"token,omitempty"`
	CreditCardCVV string `json:"credit_card_cvv,omitempty"`

	// untokenized variant
	HolderName     string `json:"holder_name,omitempty"`
	CardNumber     string `json:"card_number,omitempty"`
	CardIdentity   string `json:"card_identity,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
}

// IsUntokenizedCreditCard reports whether the payment method is a raw credit
// card carrying a full card number, i.e. one that must be tokenized before it
// may leave the service.
func (pm *PaymentMethod) IsUntokenizedCreditCard() bool {
	return pm != nil &&
		pm.Type == PaymentMethodUntokenized &&
		pm.SourceType == SourceTypeCreditCard &&
		pm.CardNumber != ""
}

// ForProvider shapes the payment method for the outbound risk request. Raw
// untokenized cards pass through unchanged; everything else collapses to the
// tokenized wire shape.
func (pm *PaymentMethod) ForProvider() *PaymentMethod {
	if pm.Type == PaymentMethodUntokenized && pm.SourceType == SourceTypeCreditCard {
		return pm
	}
	return &PaymentMethod{
		Type:          PaymentMethodTokenized,
		Token:         pm.Token,
		CreditCardCVV: pm.CreditCardCVV,
	}
}
