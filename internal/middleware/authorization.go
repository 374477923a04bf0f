package middleware

import (
	"net/http"

	"helpdesk/internal/utils"
)

// RequireAuth blocks when no user is present in context (set by WithAuth).
// The portal has a single flat role: any signed-in user sees every ticket.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetString(r.Context(), CtxUserID)
		if !ok || uid == "" {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
