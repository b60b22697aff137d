package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/httpclient"
)

// Token states that make a payment method unusable, with the merchant-facing
// rejection for each. These messages are an external contract.
var tokenStateRejections = map[string]string{
	"expired":  "Token does not exist.",
	"used":     "This token has already been used in a successful payment. Make sure the customer has given his consent to use his details again.",
	"pending":  "Token under status pending cannot be used, please activate the token in order to use it",
	"canceled": "This token cannot be used as it was cancelled by the merchant",
	"failed":   "Token cannot be used as token activation failed",
}

// TokenizationClient talks to the card vault. It logs in once and reuses the
// session token; Login may be called concurrently and at startup.
type TokenizationClient struct {
	baseURL  string
	username string
	password string
	http     *httpclient.Client

	mu           sync.Mutex
	sessionToken string
}

func NewTokenizationClient(baseURL, username, password string, hc *httpclient.Client) *TokenizationClient {
	return &TokenizationClient{
		baseURL:  baseURL,
		username: username,
		password: password,
		http:     hc,
	}
}

// HandlePaymentMethodToken prepares a caller-submitted payment method for the
// risk provider. Raw credit cards with a full number are tokenized; supplied
// tokens have their state checked against the vault. Anything else passes
// through unchanged.
func (c *TokenizationClient) HandlePaymentMethodToken(ctx context.Context, merchantID string, pm *domain.PaymentMethod, hdr http.Header) (*domain.PaymentMethod, error) {
	if pm.IsUntokenizedCreditCard() {
		return c.tokenizeCard(ctx, merchantID, pm, hdr)
	}
	if pm.Token != "" {
		if err := c.validateTokenState(ctx, merchantID, pm.Token, hdr); err != nil {
			return nil, err
		}
	}
	return pm, nil
}

type createPaymentMethodRequest struct {
	PaymentMethodDetails struct {
		PaymentMethodType string `json:"payment_method_type"`
		CardHolderName    string `json:"card_holder_name"`
		ExpirationDate    string `json:"expiration_date"`
		CardNumber        string `json:"card_number"`
		CardIdentity      string `json:"card_identity,omitempty"`
	} `json:"payment_method_details"`
	AdditionalDetails map[string]string `json:"additional_details"`
}

type createPaymentMethodResponse struct {
	PaymentMethodToken string `json:"payment_method_token"`
}

func (c *TokenizationClient) tokenizeCard(ctx context.Context, merchantID string, pm *domain.PaymentMethod, hdr http.Header) (*domain.PaymentMethod, error) {
	expiration, err := domain.NormalizeExpirationDate(pm.ExpirationDate)
	if err != nil {
		return nil, err
	}

	var reqBody createPaymentMethodRequest
	reqBody.PaymentMethodDetails.PaymentMethodType = "CreditCard"
	reqBody.PaymentMethodDetails.CardHolderName = pm.HolderName
	reqBody.PaymentMethodDetails.ExpirationDate = expiration
	reqBody.PaymentMethodDetails.CardNumber = pm.CardNumber
	reqBody.PaymentMethodDetails.CardIdentity = pm.CardIdentity
	reqBody.AdditionalDetails = map[string]string{"internal_token": "true"}

	resp, err := c.post(ctx,
		fmt.Sprintf("%s/merchants/%s/payment-methods", c.baseURL, merchantID),
		"/merchants/:merchant_id/payment-methods", reqBody, hdr)
	if err != nil {
		return nil, err
	}

	var created createPaymentMethodResponse
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return nil, NormalizeFailure(nil, fmt.Errorf("decode tokenization response: %w", err), SourceTokenization)
	}

	return &domain.PaymentMethod{
		Type:          domain.PaymentMethodTokenized,
		Token:         created.PaymentMethodToken,
		CreditCardCVV: pm.CreditCardCVV,
	}, nil
}

type paymentMethodStateResponse struct {
	PaymentMethodState struct {
		CurrentState string `json:"current_state"`
	} `json:"payment_method_state"`
}

func (c *TokenizationClient) validateTokenState(ctx context.Context, merchantID, token string, hdr http.Header) error {
	resp, err := c.doAuthorized(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/merchants/%s/payment-methods/%s", c.baseURL, merchantID, token),
		Header: PassThroughHeaders(hdr),
		Target: SourceTokenization,
		Route:  "/merchants/:merchant_id/payment-methods/:token",
	})
	if err != nil {
		return err
	}

	var state paymentMethodStateResponse
	if err := json.Unmarshal(resp.Body, &state); err != nil {
		return NormalizeFailure(nil, fmt.Errorf("decode token state: %w", err), SourceTokenization)
	}

	if msg, rejected := tokenStateRejections[state.PaymentMethodState.CurrentState]; rejected {
		return domain.NewValidationError(msg)
	}
	return nil
}

// Login establishes the vault session eagerly. Callers may ignore a failure;
// the session is re-established lazily on first use.
func (c *TokenizationClient) Login(ctx context.Context) error {
	_, err := c.ensureSession(ctx)
	return err
}

type loginResponse struct {
	SessionToken string `json:"session_token"`
}

func (c *TokenizationClient) ensureSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionToken != "" {
		return c.sessionToken, nil
	}

	body, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/login",
		Body:   body,
		Target: SourceTokenization,
		Route:  "/login",
	})
	if err != nil {
		return "", NormalizeFailure(nil, err, SourceTokenization)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", NormalizeFailure(resp, nil, SourceTokenization)
	}

	var login loginResponse
	if err := json.Unmarshal(resp.Body, &login); err != nil {
		return "", NormalizeFailure(nil, fmt.Errorf("decode login response: %w", err), SourceTokenization)
	}

	c.sessionToken = login.SessionToken
	return c.sessionToken, nil
}

func (c *TokenizationClient) post(ctx context.Context, url, route string, payload any, hdr http.Header) (*httpclient.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	return c.doAuthorized(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    url,
		Header: PassThroughHeaders(hdr),
		Body:   body,
		Target: SourceTokenization,
		Route:  route,
	})
}

// doAuthorized sends the request with the current session token. An
// unauthorized response invalidates the session and the call is repeated once
// with a fresh login, so an expired vault session heals without a restart.
func (c *TokenizationClient) doAuthorized(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	if req.Header == nil {
		req.Header = make(http.Header)
	}

	for relogin := false; ; relogin = true {
		session, err := c.ensureSession(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+session)

		resp, err := c.http.Do(ctx, req)
		if err != nil {
			return nil, NormalizeFailure(nil, err, SourceTokenization)
		}
		if resp.StatusCode == http.StatusUnauthorized && !relogin {
			c.invalidateSession(session)
			continue
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, NormalizeFailure(resp, nil, SourceTokenization)
		}
		return resp, nil
	}
}

// invalidateSession discards the cached token only if it is still the one the
// failed call used; a concurrent re-login must not be thrown away.
func (c *TokenizationClient) invalidateSession(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionToken == session {
		c.sessionToken = ""
	}
}
