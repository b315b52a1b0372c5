package middleware

import (
	"net/http"
)

// RequireKind returns middleware that allows access only to logins whose JWT
// kind matches one of the provided kinds (e.g. domain.KindPrimary). It must
// run after Auth.
func RequireKind(allowedKinds ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, kind := range allowedKinds {
				if claims.Kind == kind {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}
