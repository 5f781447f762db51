package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jabatayo/task-management-api/internal/auth"
	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/repo"
	"github.com/jabatayo/task-management-api/pkg/respond"
)

type ctxKey int

const identityKey ctxKey = 0

// Authenticator проверяет Bearer-токен и один раз на запрос загружает
// пользователя вместе с ролями. Дальше все работают с готовым Identity из
// контекста, никаких повторных обращений за ролями.
type Authenticator struct {
	tokens *auth.JWTManager
	users  repo.UserRepository
	logger *zap.Logger
}

func NewAuthenticator(tokens *auth.JWTManager, users repo.UserRepository, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Require отклоняет запросы без валидного токена
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := a.resolve(r)
		if !ok {
			respond.Error(w, r, http.StatusUnauthorized, "unauthenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), ident)))
	})
}

// Optional пропускает запрос в любом случае, но кладет Identity в контекст,
// если токен валиден. Используется формой обратной связи.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ident, ok := a.resolve(r); ok {
			r = r.WithContext(withIdentity(r.Context(), ident))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) resolve(r *http.Request) (model.Identity, bool) {
	header := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return model.Identity{}, false
	}

	claims, err := a.tokens.Validate(tokenString)
	if err != nil {
		return model.Identity{}, false
	}

	user, err := a.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if err != repo.ErrorNotFound {
			a.logger.Error("failed to load user for token", zap.Error(err))
		}
		return model.Identity{}, false
	}

	return model.NewIdentity(user), true
}

func withIdentity(ctx context.Context, ident model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFrom возвращает вызывающего, положенного в контекст middleware
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(model.Identity)
	return ident, ok
}
