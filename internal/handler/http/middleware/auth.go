package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/handler/http/response"
	"github.com/storeshift/hris-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token and stores
// the caller's user.Principal in the request context. It must run after
// jwtauth.Verifier.
func AuthRequired(tokens jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			p, err := tokens.PrincipalFromClaims(claims)
			if err != nil {
				slog.WarnContext(r.Context(), "rejected access token", "error", err)
				response.Unauthorized(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(user.WithPrincipal(r.Context(), p)))
		}
		return http.HandlerFunc(hfn)
	}
}
