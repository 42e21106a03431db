package middleware

import (
	"errors"
	"net/http"

	"hospital-admin/internal/engine"
	"hospital-admin/pkg/response"
)

// RequireAccess guards a route with a single capability-table lookup.
// The actor is read from context (set by AuthMiddleware from JWT claims).
// Record-level checks (ownership, state) stay in the usecases.
func RequireAccess(eng *engine.Engine, resource engine.ResourceType, target engine.Target, intent engine.Intent) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			decision := eng.Evaluate(actor, resource, target, intent, nil)
			if !decision.Allowed {
				if errors.Is(decision.Reason, engine.ErrConfiguration) {
					response.InternalServerError(w, "")
					return
				}
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
