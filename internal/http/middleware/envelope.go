package middleware

import (
	"net/http"
	"strings"
)

const (
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
)

var preflightBody = []byte(`{"message":"CORS preflight"}` + "\n")

// Envelope stamps the fixed JSON and CORS headers on every response and answers any
// OPTIONS request itself. It must run after Cors so its values win.
func Envelope() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			setEnvelopeHeaders(w.Header())

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				//nolint:errcheck
				w.Write(preflightBody)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setEnvelopeHeaders(h http.Header) {
	h.Set("Content-Type", "application/json")
	h.Set(HeaderAllowOrigin, "*")
	h.Set(HeaderAllowMethods, strings.Join(allowedMethods, ", "))
	h.Set(HeaderAllowHeaders, strings.Join(allowedHeaders, ", "))
}
