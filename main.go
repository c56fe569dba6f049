// Entry point of the devconnect application. It loads configuration,
// establishes the database pool, runs migrations, wires stores, services and
// handlers together, sets up the HTTP router and middleware, and starts the
// server with graceful shutdown.
//
// @title DevConnect API
// @version 1.0
// @description Social-networking REST API: users, profiles, posts, likes, comments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/user/devconnect-go/apperror"
	"github.com/user/devconnect-go/auth"
	"github.com/user/devconnect-go/config"
	"github.com/user/devconnect-go/db"
	"github.com/user/devconnect-go/posts"
	"github.com/user/devconnect-go/profile"
)

func main() {
	// .env is a development convenience; in production the variables are set
	// directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Token issuance/verification is configured here, at the process entry
	// point; nothing below holds global state.
	issuer := auth.NewTokenIssuer(*cfg.Auth)

	userStore := auth.NewUserStore(pool)
	authService := auth.NewAuthService(userStore, issuer)
	authHandlers := auth.NewHandlers(authService)

	profileService := profile.NewProfileService(profile.NewProfileStore(pool), profile.NewGithubClient())
	profileHandlers := profile.NewHandlers(profileService)

	postService := posts.NewPostService(posts.NewPostStore(pool), userStore)
	postHandlers := posts.NewHandlers(postService)

	r := chi.NewRouter()

	// Global middleware; chi requires these before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that answers with the standard error payload.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	requireAuth := auth.JWTMiddleware(issuer)

	// Registration is public and returns a token straight away.
	r.Post("/users", authHandlers.HandleRegister())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/", authHandlers.HandleLogin())
		r.With(requireAuth).Get("/", authHandlers.HandleCurrentUser())
	})

	r.Route("/profile", func(r chi.Router) {
		// Public listing and lookup.
		r.Get("/", profileHandlers.HandleList())
		r.Get("/user/{userID}", profileHandlers.HandleGetByUser())
		r.Get("/github/{username}", profileHandlers.HandleGithubRepos())

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", profileHandlers.HandleGetMyProfile())
			r.Post("/", profileHandlers.HandleUpsert())
			r.Delete("/", profileHandlers.HandleDeleteAccount())
			r.Put("/experience", profileHandlers.HandleAddExperience())
			r.Delete("/experience/{entryID}", profileHandlers.HandleRemoveExperience())
			r.Put("/education", profileHandlers.HandleAddEducation())
			r.Delete("/education/{entryID}", profileHandlers.HandleRemoveEducation())
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", postHandlers.HandleCreate())
		r.Get("/", postHandlers.HandleList())
		r.Get("/{postID}", postHandlers.HandleGet())
		r.Delete("/{postID}", postHandlers.HandleDelete())
		r.Put("/like/{postID}", postHandlers.HandleLike())
		r.Put("/unlike/{postID}", postHandlers.HandleUnlike())
		r.Post("/comment/{postID}", postHandlers.HandleAddComment())
		r.Delete("/comment/{postID}/{commentID}", postHandlers.HandleDeleteComment())
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware; it is kept
// separate from the auth package helpers to avoid import cycles.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"Failed to encode error response"}`, http.StatusInternalServerError)
	}
}
