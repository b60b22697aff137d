package domain

// Header names consumed from inbound requests and propagated to upstreams.
const (
	HeaderAccountID         = "X-Zooz-Account-Id"
	HeaderAppName           = "X-Zooz-App-Name"
	HeaderRequestID         = "X-Zooz-Request-Id"
	HeaderAccessEnvironment = "X-Zooz-Access-Environment"
	HeaderIdempotency       = "X-Zooz-Proxy-Request-Id"
	HeaderAPIVersion        = "X-Zooz-Payment-Service-Api-Version"
	HeaderClientIPAddress   = "X-Client-Ip-Address"
)

// Identity is the caller identity extracted from trusted gateway headers.
type Identity struct {
	AccountID         string
	AppName           string
	RequestID         string
	AccessEnvironment string
	IdempotencyKey    string
	ClientIP          string
}
