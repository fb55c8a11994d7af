package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/velvetnails/velvet-api/internal/config"
	"github.com/velvetnails/velvet-api/internal/domain/admin"
	"github.com/velvetnails/velvet-api/internal/domain/contact"
	"github.com/velvetnails/velvet-api/internal/domain/design"
	"github.com/velvetnails/velvet-api/internal/domain/gallery"
	"github.com/velvetnails/velvet-api/internal/domain/like"
	"github.com/velvetnails/velvet-api/internal/middleware"
	"github.com/velvetnails/velvet-api/internal/pkg/database"
	"github.com/velvetnails/velvet-api/internal/pkg/email"
	"github.com/velvetnails/velvet-api/internal/pkg/imaging"
	"github.com/velvetnails/velvet-api/internal/pkg/jwt"
	"github.com/velvetnails/velvet-api/internal/pkg/logger"
	pkgresponse "github.com/velvetnails/velvet-api/internal/pkg/response"
	"github.com/velvetnails/velvet-api/internal/pkg/storage"
	"github.com/velvetnails/velvet-api/internal/pkg/urlcache"
	"github.com/velvetnails/velvet-api/internal/realtime"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Velvet API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	r2Storage, err := storage.NewR2Storage(storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		AccessKeySecret: cfg.R2AccessKeySecret,
		BucketName:      cfg.R2BucketName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create R2 storage")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.SessionMaxAge)
	relay := email.NewRelayClient(email.RelayConfig{
		URL:    cfg.RelayURL,
		APIKey: cfg.RelayAPIKey,
	})

	// ---------- Catalog plumbing ----------
	urlCache := urlcache.New(urlcache.NewRedisKV(redis), cfg.URLCacheTTL)
	resolver := design.NewResolver(urlCache, r2Storage, cfg.SignedURLTTL, cfg.PriorityResolves)
	defer resolver.Close()

	publisher := design.NewPublisher(redis)
	watcher := design.NewWatcher(redis)

	// ---------- Repositories and services ----------
	designRepo := design.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	likeService := like.NewService(like.NewCounterStore(redis), like.NewFavoriteStore(redis))

	processor := imaging.NewProcessor(imaging.DefaultConfig())
	designService := design.NewService(designRepo, r2Storage, likeService, resolver, publisher, processor, cfg.R2DesignPrefix)

	galleryService := gallery.NewService(designService, likeService, cfg.GalleryPageSize, cfg.GalleryPageStep)

	sessions := admin.NewSessionStore(redis, cfg.SessionIdleTTL)
	resets := admin.NewResetStore(redis, cfg.ResetRateWindow)
	adminService := admin.NewService(adminRepo, sessions, resets, jwtService, relay, cfg.ResetBaseURL)

	contactService := contact.NewService(relay, cfg.ContactTo)

	// ---------- Handlers ----------
	galleryHandler := gallery.NewHandler(galleryService)
	likeHandler := like.NewHandler(likeService)
	designHandler := design.NewHandler(designService)
	adminHandler := admin.NewHandler(adminService)
	contactHandler := contact.NewHandler(contactService)

	hub := realtime.NewHub(watcher, designService)
	go hub.Run()
	wsHandler := realtime.NewHandler(hub, cfg.AllowedOrigins)

	sessionMiddleware := admin.SessionAuth(jwtService, sessions)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", wsHandler.ServeWS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.Visitor)

		r.Mount("/gallery", galleryHandler.Routes())
		r.Mount("/designs", likeHandler.Routes())
		r.Get("/favorites", likeHandler.Favorites)
		r.Mount("/contact", contactHandler.Routes())

		r.Mount("/admin", adminHandler.Routes(sessionMiddleware))
		r.Mount("/admin/designs", designHandler.AdminRoutes(sessionMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	hub.Shutdown()

	log.Info().Msg("Server exited properly")
}
