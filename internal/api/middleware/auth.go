package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

const (
	// HeaderUserID идентификатор пользователя, проставляется шлюзом аутентификации
	HeaderUserID = "X-User-ID"
	// HeaderUserRole роль пользователя; admin - администратор
	HeaderUserRole = "X-User-Role"

	msgMissingUserID = "missing or invalid X-User-ID header"
)

type actorKey struct{}

// Auth достает пользователя из заголовков и кладет его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		role := domain.RoleUser
		if strings.EqualFold(r.Header.Get(HeaderUserRole), string(domain.RoleAdmin)) {
			role = domain.RoleAdmin
		}

		ctx := WithActor(r.Context(), domain.Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor пользователь запроса
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// GetUserID ID пользователя запроса
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	return actor.UserID, ok
}
