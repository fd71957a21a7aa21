package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/handler/http/response"
)

// principalFrom returns the caller stored by middleware.AuthRequired and
// writes a 401 when it is missing.
func principalFrom(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	p, ok := user.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrPrincipalMissing)
	}
	return p, ok
}

// branchScope resolves the branch a read applies to. Owners name it with
// ?branch_id=, everyone else is held to their own branch.
func branchScope(w http.ResponseWriter, r *http.Request, p user.Principal) (string, bool) {
	requested := strings.TrimSpace(r.URL.Query().Get("branch_id"))

	if p.IsOwner() {
		if requested == "" {
			response.ValidationError(w, map[string]string{"branch_id": "branch_id is required"})
			return "", false
		}
		return requested, true
	}

	if requested != "" && requested != p.BranchID {
		response.HandleError(w, user.ErrBranchAccessDenied)
		return "", false
	}
	return p.BranchID, true
}

// decodeJSON reads the request body into dst and writes a 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.WarnContext(r.Context(), "decode request body", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}
