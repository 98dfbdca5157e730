package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"jokes-api/internal/model"
	"jokes-api/pkg/apierror"
)

type principalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (model.User, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

type AuthMiddleware struct {
	resolver principalResolver
}

func NewAuthMiddleware(resolver principalResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth resolves the bearer token to a stored user and rejects the
// request otherwise. A valid token whose user was deleted gets its own code.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
			writeAuthError(w, apierror.Unauthenticated("missing or invalid authorization header"))
			return
		}

		token := strings.TrimSpace(header[7:])
		principal, err := m.resolver.ResolvePrincipal(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, model.ErrInvalidToken):
			writeAuthError(w, apierror.Unauthenticated("invalid or expired token"))
			return
		case errors.Is(err, model.ErrPrincipalNotFound):
			writeAuthError(w, apierror.New(apierror.CodePrincipalNotFound, "token user no longer exists", "", http.StatusUnauthorized))
			return
		case errors.Is(err, model.ErrForbidden):
			writeAuthError(w, apierror.Forbidden("account disabled"))
			return
		default:
			slog.Error("principal lookup failed", "error", err)
			writeAuthError(w, apierror.New(apierror.CodeStoreError, "could not verify credentials", "", http.StatusInternalServerError))
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (model.User, bool) {
	principal, ok := ctx.Value(principalContextKey).(model.User)
	return principal, ok
}

// WithPrincipal is used by tests and internal callers that bypass RequireAuth.
func WithPrincipal(ctx context.Context, principal model.User) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

func writeAuthError(w http.ResponseWriter, apiErr *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	if apiErr.HTTPStatus == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(apiErr.HTTPStatus)

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}
