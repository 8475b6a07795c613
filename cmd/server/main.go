package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/petforum/internal/api"
	"github.com/VitaminP8/petforum/internal/comment"
	"github.com/VitaminP8/petforum/internal/config"
	"github.com/VitaminP8/petforum/internal/engagement"
	"github.com/VitaminP8/petforum/internal/post"
	"github.com/VitaminP8/petforum/internal/storage/memory"
	"github.com/VitaminP8/petforum/internal/storage/pgxstore"
	"github.com/VitaminP8/petforum/internal/storage/postgres"
	"github.com/VitaminP8/petforum/internal/subscription"
	"github.com/VitaminP8/petforum/internal/user"
)

func main() {
	storageType := flag.String("storage", "memory", "Тип хранилища: memory, postgres (gorm) или pgx")
	flag.Parse()

	// загружаем .env из нашего config.go
	config.LoadEnv()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET не задан: вход и авторизованные запросы работать не будут")
	}

	ctx := context.Background()

	var postStore post.PostStorage
	var commentStore comment.CommentStorage
	var userStore user.UserStorage
	var closeStore func()

	switch *storageType {
	case "postgres":
		if err := postgres.InitDB(); err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := postgres.Migrate(postgres.DB); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		log.Println("Используется PostgreSQL хранилище (gorm)")
		postStore = postgres.NewPostPostgresStorage()
		commentStore = postgres.NewCommentPostgresStorage()
		userStore = postgres.NewUserPostgresStorage()
		closeStore = func() {
			if err := postgres.CloseDB(); err != nil {
				log.Printf("Ошибка при закрытии БД: %v", err)
			}
		}

	case "pgx":
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL не задан")
		}
		store, err := pgxstore.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		log.Println("Используется PostgreSQL хранилище (pgx)")
		postStore = store.Posts()
		commentStore = store.Comments()
		userStore = store.Users()
		closeStore = store.Close

	case "memory":
		log.Println("Используется in-memory хранилище")
		users := memory.NewUserMemoryStorage()
		posts := memory.NewPostMemoryStorage(users)
		userStore = users
		postStore = posts
		commentStore = memory.NewCommentMemoryStorage(posts, users)
		closeStore = func() {}

	default:
		log.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}

	manager := subscription.NewSubscriptionManager()
	aggregator := engagement.NewAggregator(postStore, commentStore)

	handler := &api.Handler{
		Users:         user.NewService(userStore, cfg.JWTSecret, cfg.TokenTTL),
		Posts:         post.NewService(postStore, aggregator),
		Comments:      comment.NewService(commentStore, manager),
		Likes:         aggregator,
		Subscriptions: manager,
		PageSize:      cfg.PageSize,
		JWTSecret:     cfg.JWTSecret,
		CORSOrigins:   cfg.CORSOrigins,
	}

	// HTTP сервер; WriteTimeout не задан - SSE-поток держит соединение открытым
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// открытые SSE-потоки завершаются при Shutdown через базовый контекст
	baseCtx, stopStreams := context.WithCancel(ctx)
	server.BaseContext = func(net.Listener) context.Context { return baseCtx }
	server.RegisterOnShutdown(stopStreams)

	// запуск HTTP сервер
	go func() {
		log.Printf("Сервер запущен на %s", cfg.HTTPAddr)
		// ListenAndServe блокирует поток до server.Shutdown() или фатальной ошибки
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // ждет сигнал

	log.Println("Завершение...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка при завершении сервера: %v", err)
	}
	closeStore()

	log.Println("Сервер остановлен корректно")
}
