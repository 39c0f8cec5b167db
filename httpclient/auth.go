package httpclient

import "net/http"

// Auth sets credentials on an outgoing request. A nil Auth sends none.
type Auth func(h http.Header)

// BearerAuth sends "Authorization: Bearer <token>". An empty token yields nil.
func BearerAuth(token string) Auth {
	if token == "" {
		return nil
	}
	return func(h http.Header) { h.Set("Authorization", "Bearer "+token) }
}

// APIKeyAuth sends key in the named header, X-API-Key when header is empty.
// An empty key yields nil.
func APIKeyAuth(key, header string) Auth {
	if key == "" {
		return nil
	}
	if header == "" {
		header = "X-API-Key"
	}
	return func(h http.Header) { h.Set(header, key) }
}
