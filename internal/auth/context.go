package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const identityKey = contextKey("identity")

// ErrNoIdentity - запрос не аутентифицирован
var ErrNoIdentity = errors.New("identity not found in context")

// Identity - аутентифицированный пользователь, от имени которого идет вызов.
// Получается один раз при входе и явно передается в каждую изменяющую операцию.
type Identity struct {
	UserID   string
	Username string
}

func (i Identity) Valid() bool {
	return i.UserID != ""
}

// Сохраняет Identity в контексте
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Достает Identity из контекста
func IdentityFromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || !id.Valid() {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

// AuthMiddleware извлекает Identity из JWT и кладет ее в context.
// Запросы без токена или с невалидным токеном проходят как анонимные.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractTokenFromHeader(r.Header.Get("Authorization"))
			if tokenStr == "" {
				next.ServeHTTP(w, r) // неавторизованный доступ - пропускаем
				return
			}

			if secret == "" {
				http.Error(w, "JWT secret not set", http.StatusInternalServerError)
				return
			}

			id, err := ParseToken(secret, tokenStr)
			if err != nil {
				next.ServeHTTP(w, r) // если невалидный токен - пропускаем
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireIdentity отвечает 401, если в контексте нет пользователя
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := IdentityFromContext(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"Unauthorized","message":"authentication required"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// ParseToken проверяет подпись и срок действия токена
func ParseToken(secret, tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, errors.New("user_id claim is missing")
	}
	username, _ := claims["username"].(string)

	return Identity{UserID: userID, Username: username}, nil
}
