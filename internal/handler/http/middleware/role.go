package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// RequireMaster requires master role
func RequireMaster(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok || !p.IsMaster() {
			response.HandleError(w, user.ErrMasterAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireBranchAccess checks the branchID URL parameter, or the branch_id
// query parameter when the route has none, against the caller's branches.
// Requests naming no branch pass through; handlers that need one validate it.
// It must be mounted with r.With or inside r.Route below the route that declares
// {branchID}: on the root mux chi has not resolved URL params yet.
func RequireBranchAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		branchID := chi.URLParam(r, "branchID")
		if branchID == "" {
			branchID = r.URL.Query().Get("branch_id")
		}

		if branchID != "" && !p.CanAccessBranch(branchID) {
			response.HandleError(w, user.ErrBranchAccessDenied)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
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
