/**
 * @description
 * This file contains custom middleware for the HTTP router. The planner is an
 * internal calculation service fronted by the platform's API gateway, so its
 * endpoints are protected with a shared internal API key rather than end-user
 * credentials.
 *
 * @dependencies
 * - crypto/subtle, net/http: Standard Go libraries.
 */

package api

import (
	"crypto/subtle"
	"net/http"
)

const internalAPIKeyHeader = "X-Internal-Api-Key"

// RequireInternalAPIKey rejects requests that do not carry the configured
// internal API key. An empty configured key disables the check (local
// development).
func RequireInternalAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.Header.Get(internalAPIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
