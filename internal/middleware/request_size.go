package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize is the request body cap used by the API router
const DefaultMaxRequestSize = 1 << 20 // 1MB

// RequestSizeLimit limits the size of request bodies to maxRequestSize bytes
func RequestSizeLimit(maxRequestSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxRequestSize {
				writeError(w, http.StatusRequestEntityTooLarge, "Corpo da requisição muito grande")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			next.ServeHTTP(w, r)
		})
	}
}
