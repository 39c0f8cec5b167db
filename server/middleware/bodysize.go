package middleware

import (
	"net/http"

	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/util"
)

// DefaultMaxBodySize is used when the configured limit does not parse.
const DefaultMaxBodySize = 25 << 20

// BodySizeLimit caps request bodies at limit, e.g. "25MB". A declared
// Content-Length over the cap gets 413 before the handler runs. A body of
// unknown length fails on the read that crosses the cap.
func BodySizeLimit(limit string) Middleware {
	maxBytes := util.ParseSize(limit, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, errors.PayloadTooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
