// Package api - REST-интерфейс форума поверх сервисов user, post, comment и engagement.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/VitaminP8/petforum/internal/auth"
	"github.com/VitaminP8/petforum/internal/comment"
	"github.com/VitaminP8/petforum/internal/post"
	"github.com/VitaminP8/petforum/internal/subscription"
	"github.com/VitaminP8/petforum/internal/user"
)

const requestTimeout = 30 * time.Second

// Liker переключает лайк поста (engagement.Aggregator)
type Liker interface {
	ToggleLike(ctx context.Context, postID string, currentlyLiked bool) (int, error)
}

// Handler - корневая точка для всех обработчиков, зависимости внедряются через поля
type Handler struct {
	Users         *user.Service
	Posts         *post.Service
	Comments      *comment.Service
	Likes         Liker
	Subscriptions subscription.Manager

	PageSize    int
	JWTSecret   string
	CORSOrigins []string
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: h.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}).Handler)
	r.Use(auth.AuthMiddleware(h.JWTSecret))

	r.Get("/health", h.health)

	// поток комментариев живет дольше requestTimeout
	r.Get("/posts/{id}/comments/stream", h.streamComments)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Get("/posts", h.listPosts)
		r.Get("/posts/{id}", h.getPost)
		r.Get("/posts/{id}/comments", h.listComments)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireIdentity)
			r.Post("/posts", h.createPost)
			r.Post("/posts/{id}/comments", h.createComment)
			r.Post("/posts/{id}/like", h.toggleLike)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
