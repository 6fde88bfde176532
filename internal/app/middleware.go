package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/kudoshq/kudos/internal/config"
	"github.com/kudoshq/kudos/internal/rest"
	"github.com/kudoshq/kudos/pkg/user"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Resolve the current user from the Authorization header and propagate
	// it into the request context for downstream services.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			if bearer, ok := bearerToken(req); ok {
				subject, err := deps.TokenValidator.Subject(bearer)
				if err != nil {
					log.Debugf("rejected bearer token: %v", err)
					rest.WriteError(w, http.StatusUnauthorized, "Invalid bearer token")
					return
				}
				u, err := deps.UserService.GetUserBySubject(ctx, subject)
				if errors.Is(err, user.ErrUserNotFound) {
					log.Debugf("no user for subject: %s", subject)
					rest.WriteError(w, http.StatusForbidden, "Unknown user")
					return
				} else if err != nil {
					log.Errorf("failed to resolve user: %v", err)
					rest.WriteError(w, http.StatusInternalServerError, "Failed to resolve user")
					return
				}
				ctx = user.WithUser(ctx, u)
			} else if userIdHeader := req.Header.Get("X-User-Id"); userIdHeader != "" {
				// Development fallback when no token is presented.
				u, err := deps.UserService.GetUserByUid(ctx, userIdHeader)
				if errors.Is(err, user.ErrUserNotFound) {
					log.Debugf("user not found: %s", userIdHeader)
					rest.WriteError(w, http.StatusForbidden, "Unknown user")
					return
				} else if err != nil {
					log.Errorf("failed to get user: %v", err)
					rest.WriteError(w, http.StatusInternalServerError, "Failed to resolve user")
					return
				}
				ctx = user.WithUser(ctx, u)
			}

			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}

func bearerToken(req *http.Request) (string, bool) {
	header := req.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// requireAdmin guards the admin subrouter.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !user.IsAdmin(req.Context()) {
			rest.WriteError(w, http.StatusForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, req)
	})
}
