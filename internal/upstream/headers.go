package upstream

import (
	"net/http"
	"strings"
)

// Only gateway-scoped headers travel to upstreams; everything else the caller
// sent stays at this hop.
var passThroughPrefixes = []string{
	"x-zooz-",
	"x-payments-os-",
	"x-client-ip-address",
}

// PassThroughHeaders copies the allow-listed subset of inbound headers for
// forwarding to an upstream service.
func PassThroughHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for name, values := range h {
		lower := strings.ToLower(name)
		for _, prefix := range passThroughPrefixes {
			if strings.HasPrefix(lower, prefix) {
				out[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
				break
			}
		}
	}
	return out
}
