package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret"

func TestWithIdentityAndIdentityFromContext(t *testing.T) {
	t.Run("Store and retrieve identity from context", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{UserID: "123", Username: "bob"})

		id, err := IdentityFromContext(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "123", id.UserID)
		assert.Equal(t, "bob", id.Username)
	})

	t.Run("Error when identity not in context", func(t *testing.T) {
		_, err := IdentityFromContext(context.Background())
		assert.ErrorIs(t, err, ErrNoIdentity)
	})

	t.Run("Error when context value has wrong type", func(t *testing.T) {
		// Создаем контекст с неправильным типом значения
		ctx := context.WithValue(context.Background(), identityKey, "not-an-identity")

		_, err := IdentityFromContext(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found in context")
	})

	t.Run("Error when identity is empty", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{})
		_, err := IdentityFromContext(ctx)
		assert.ErrorIs(t, err, ErrNoIdentity)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	t.Run("Valid Bearer token", func(t *testing.T) {
		assert.Equal(t, "token123", extractTokenFromHeader("Bearer token123"))
	})

	t.Run("Invalid format - no Bearer prefix", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader("NotBearer token123"))
	})

	t.Run("Invalid format - no space", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader("Bearertoken123"))
	})

	t.Run("Empty header", func(t *testing.T) {
		assert.Equal(t, "", extractTokenFromHeader(""))
	})
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func TestAuthMiddleware(t *testing.T) {
	// Тестовый обработчик сообщает, есть ли пользователь в контексте
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := IdentityFromContext(r.Context())
		if err == nil {
			fmt.Fprintf(w, "User ID: %s (%s)", id.UserID, id.Username)
		} else {
			fmt.Fprint(w, "No user ID in context")
		}
	})

	handler := AuthMiddleware(testSecret)(testHandler)

	serve := func(h http.Handler, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	t.Run("Valid token", func(t *testing.T) {
		tokenString := signed(t, testSecret, jwt.MapClaims{
			"user_id":  "123",
			"username": "testuser",
			"exp":      time.Now().Add(time.Hour).Unix(),
		})

		w := serve(handler, "Bearer "+tokenString)
		assert.Equal(t, "User ID: 123 (testuser)", w.Body.String())
	})

	t.Run("Token issued by IssueToken", func(t *testing.T) {
		tokenString, err := IssueToken(testSecret, Identity{UserID: "7", Username: "alice"}, time.Hour)
		require.NoError(t, err)

		w := serve(handler, "Bearer "+tokenString)
		assert.Equal(t, "User ID: 7 (alice)", w.Body.String())
	})

	t.Run("Invalid token signature", func(t *testing.T) {
		tokenString := signed(t, "wrong_secret", jwt.MapClaims{
			"user_id": "123",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		w := serve(handler, "Bearer "+tokenString)
		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("Expired token", func(t *testing.T) {
		tokenString := signed(t, testSecret, jwt.MapClaims{
			"user_id": "123",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})

		w := serve(handler, "Bearer "+tokenString)
		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("Token without user_id", func(t *testing.T) {
		tokenString := signed(t, testSecret, jwt.MapClaims{
			"username": "ghost",
			"exp":      time.Now().Add(time.Hour).Unix(),
		})

		w := serve(handler, "Bearer "+tokenString)
		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("No token", func(t *testing.T) {
		w := serve(handler, "")
		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("Invalid token format", func(t *testing.T) {
		w := serve(handler, "InvalidFormat")
		assert.Equal(t, "No user ID in context", w.Body.String())
	})

	t.Run("No JWT secret", func(t *testing.T) {
		tokenString := signed(t, testSecret, jwt.MapClaims{
			"user_id": "123",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		w := serve(AuthMiddleware("")(testHandler), "Bearer "+tokenString)

		// Проверяем статус код 500
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "JWT secret not set")
	})
}

func TestRequireIdentity(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireIdentity(ok)

	t.Run("Anonymous request is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("POST", "/posts", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Unauthorized")
	})

	t.Run("Authenticated request passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/posts", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: "1"}))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestIssueToken(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		tokenString, err := IssueToken(testSecret, Identity{UserID: "42", Username: "dog"}, time.Hour)
		require.NoError(t, err)

		id, err := ParseToken(testSecret, tokenString)
		require.NoError(t, err)
		assert.Equal(t, Identity{UserID: "42", Username: "dog"}, id)
	})

	t.Run("Empty secret", func(t *testing.T) {
		_, err := IssueToken("", Identity{UserID: "42"}, time.Hour)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("Empty identity", func(t *testing.T) {
		_, err := IssueToken(testSecret, Identity{}, time.Hour)
		assert.ErrorIs(t, err, ErrNoIdentity)
	})
}
