package httpapi

import (
	"context"
	"net/http"
	"strings"

	"shopd/internal/apperr"
	"shopd/internal/models"
)

type contextKey string

const userContextKey contextKey = "shopd.user"

// currentUser returns the authenticated user stored by requireUser.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// requireUser authenticates the Bearer token and stores the resolved user
// on the request context.
func (a *API) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, apperr.Wrap(apperr.ErrAuthentication, "missing bearer token"))
			return
		}

		user, err := a.accounts.CurrentUser(r.Context(), token)
		if err != nil {
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSuperuser additionally rejects non-admin callers.
func (a *API) requireSuperuser(next http.Handler) http.Handler {
	return a.requireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := currentUser(r); user == nil || !user.IsSuperuser {
			respondError(w, apperr.Wrap(apperr.ErrForbidden, "admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	}))
}
