package middleware

import (
	"fmt"
	"net/http"

	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/handler/http/response"
)

// RequireOwner requires owner role
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := user.PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrPrincipalMissing)
			return
		}

		if !p.IsOwner() {
			response.HandleError(w, user.ErrOwnerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := user.PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrPrincipalMissing)
			return
		}

		if !p.IsManager() {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := user.PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrPrincipalMissing)
				return
			}

			if !user.HasPermission(p.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, p.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
