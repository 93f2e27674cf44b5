package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/andydlo/neighborhood-connect/internal/chat"
	"github.com/andydlo/neighborhood-connect/internal/config"
	"github.com/andydlo/neighborhood-connect/internal/directory"
	"github.com/andydlo/neighborhood-connect/internal/event"
	"github.com/andydlo/neighborhood-connect/internal/neighborhood"
	"github.com/andydlo/neighborhood-connect/internal/store"
	"github.com/andydlo/neighborhood-connect/internal/user"
	"github.com/andydlo/neighborhood-connect/pkg/logging"
	mw "github.com/andydlo/neighborhood-connect/pkg/middleware"
)

// @title           Neighborhood Connect API
// @version         1.0
// @description     Membership directory for ZIP-code scoped neighborhood groups, group chat, and local events.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Initialize the record store
	var st store.Store
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		slog.Info("Connected to database successfully")
		st = pg
	}
	defer st.Close()

	// User feature
	userRepo := user.NewRepository(st)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, cfg.JWTSecret, cfg.TokenTTL)

	// Chat feature
	chatRepo := chat.NewRepository(st)
	chatService := chat.NewService(chatRepo)
	chatHandler := chat.NewHandler(chatService)

	// Neighborhood feature (mounts the chat routes under each group)
	neighborhoodRepo := neighborhood.NewRepository(st)
	neighborhoodService := neighborhood.NewService(neighborhoodRepo)
	neighborhoodHandler := neighborhood.NewHandler(neighborhoodService, chatHandler)

	// Event feature
	eventRepo := event.NewRepository(st)
	eventService := event.NewService(eventRepo)
	eventHandler := event.NewHandler(eventService)

	// Directory projection (home view)
	index := directory.NewIndex()
	projector := directory.NewProjector(index)
	projector.Run(st)
	defer projector.Stop()
	directoryHandler := directory.NewHandler(projector)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(mw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", userHandler.AuthRoutes())

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(cfg.JWTSecret))

			r.Mount("/profile", userHandler.ProfileRoutes())
			r.Mount("/neighborhoods", neighborhoodHandler.Routes())
			r.Mount("/events", eventHandler.Routes())
			r.Mount("/home", directoryHandler.Routes())
		})
	})

	// Start server
	slog.Info("Server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
