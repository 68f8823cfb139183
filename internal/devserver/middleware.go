package devserver

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bookexpert/internal/jwtx"
)

func (r *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.secret == nil {
			next.ServeHTTP(w, req)
			return
		}

		authz := req.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := jwtx.Parse(strings.TrimPrefix(authz, "Bearer "), r.secret)
		if err != nil {
			r.log.Debug(req.Context(), "rejected token", "error", err)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		r.log.Debug(req.Context(), "authenticated", "sub", claims.Subject)
		next.ServeHTTP(w, req)
	})
}
