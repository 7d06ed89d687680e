package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

// UserIDHeader заголовок с ID пользователя, проставляемый шлюзом
const UserIDHeader = "X-User-ID"

const (
	msgUnauthorized = "требуется заголовок X-User-ID"
	msgInvalidUser  = "некорректный X-User-ID"
	msgInvalidHost  = "некорректный ID хоста"
	msgForbidden    = "доступ запрещен"
)

type userIDKey struct{}

// Auth кладет ID пользователя из заголовка в контекст. Без заголовка - 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUser)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	})
}

// GetUserID возвращает ID пользователя, положенный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// RequireHost пропускает запрос, только если пользователь и есть {hostId} маршрута.
// Подключается после Auth.
func RequireHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
		if err != nil || hostID <= 0 {
			handlers.RespondBadRequest(w, msgInvalidHost)
			return
		}
		userID, ok := GetUserID(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		if userID != hostID {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
