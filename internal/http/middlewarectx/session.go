package middlewarectx

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionID — ключ для идентификатора сессии в контексте
const SessionID Key = "session_id"

// SessionMiddleware выдаёт сессионный cookie, если его нет, и кладёт
// идентификатор сессии в контекст запроса. SameSite=Lax обязателен:
// возвратный редирект платёжного шлюза должен принести cookie обратно.
func SessionMiddleware(cookieName string, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				sessionID = c.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					Expires:  time.Now().Add(ttl),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), SessionID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClearSessionCookie немедленно гасит сессионный cookie в ответе.
func ClearSessionCookie(w http.ResponseWriter, cookieName string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
