package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/picstash/picstash-go/internal/config"
	"github.com/picstash/picstash-go/internal/handler"
	"github.com/picstash/picstash-go/internal/middleware"
	"github.com/picstash/picstash-go/internal/repository"
	"github.com/picstash/picstash-go/internal/service"
	"github.com/picstash/picstash-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.RunMigrations(context.Background(), db); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	objects, err := newObjectStorage(cfg)
	if err != nil {
		slog.Error("storage initialization failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessExpiry, cfg.RefreshExpiry)
	authHandler := handler.NewAuthHandler(authService)

	imageService := service.NewImageService(imageRepo, userRepo, objects)
	imageHandler := handler.NewImageHandler(imageService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/auth/signup/", authHandler.HandleSignup)
		r.Post("/api/auth/login/", authHandler.HandleLogin)
		r.Post("/api/auth/refresh/", authHandler.HandleRefresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Get("/api/images/", imageHandler.HandleList)
		r.Post("/api/images/upload/", imageHandler.HandleUpload)
		r.Get("/api/images/{id}/", imageHandler.HandleGet)
		r.Delete("/api/images/{id}/delete/", imageHandler.HandleDelete)
	})

	// The local driver serves its own bytes; cloud drivers hand out
	// absolute URLs instead.
	if local, ok := objects.(*storage.LocalStorage); ok {
		prefix := cfg.MediaURL + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(local.Root()))))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newObjectStorage(cfg config.Config) (storage.ObjectStorage, error) {
	switch cfg.StorageDriver {
	case config.StorageLocal:
		return storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	case config.StorageS3:
		return storage.NewS3Storage(context.Background(), storage.S3Config{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case config.StorageCloudinary:
		return storage.NewCloudinaryStorage(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
