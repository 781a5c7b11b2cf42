package httpx

import (
	"fmt"
	"net/http"
)

// APIKeyRoundTripper injects a static API key header into every request.
// Used for providers authenticating with a custom header (e.g. Qdrant's
// "api-key") rather than a bearer token.
type APIKeyRoundTripper struct {
	next   http.RoundTripper
	header string
	key    string
}

func NewAPIKeyRoundTripper(
	next http.RoundTripper,
	header string,
	key string,
) APIKeyRoundTripper {
	return APIKeyRoundTripper{
		next:   next,
		header: header,
		key:    key,
	}
}

func (rt APIKeyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.key != "" {
		req.Header.Set(rt.header, rt.key)
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
