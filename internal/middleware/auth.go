package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"peraturan/internal/auth"
	"peraturan/internal/domain/models"
	"peraturan/internal/httputil"
)

// AdminAuth verifies the Bearer token against Supabase JWKS and requires
// the caller's email to be on the admin allow-list. On success the admin
// actor is placed on the request context for the review handlers.
func AdminAuth(verifier auth.JWTVerifier, admins *auth.AdminChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing or malformed Authorization header")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			if !admins.IsAdmin(claims.Email) {
				logger.Warn("non-admin attempted review endpoint",
					"user_id", claims.Subject,
					"path", r.URL.Path,
				)
				httputil.RespondError(w, http.StatusForbidden, "admin access required")
				return
			}

			actor := &models.Actor{ID: claims.Subject, Email: claims.Email}
			next.ServeHTTP(w, httputil.WithActor(r, actor))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer X" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
