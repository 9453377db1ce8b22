package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/auth"
	appmiddleware "github.com/xand3reth/vibe-coded-blog-platform/internal/middleware"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/realtime"
)

type RouterConfig struct {
	Store              Store
	Hub                *realtime.Hub
	Sessions           *auth.Manager
	OAuth              OAuthProvider
	CorsAllowedOrigins []string
	SecureCookies      bool
}

// NewRouter assembles the full HTTP surface: public posts and comments, the
// comment event stream, the view-count proxy, the auth flow, and the
// whitelist-gated admin console.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	r.Use(auth.WithSession(cfg.Sessions))

	r.Get("/health", Health)

	postsHandler := NewPostsHandler(cfg.Store)
	commentsHandler := NewCommentsHandler(cfg.Store, cfg.Hub)
	adminHandler := NewAdminHandler(cfg.Store, cfg.Hub)
	authHandler := NewAuthHandler(cfg.Store, cfg.OAuth, cfg.Sessions, cfg.SecureCookies)

	r.Route("/auth", func(r chi.Router) {
		loginLimiter := appmiddleware.NewRateLimiter(5, time.Minute)
		r.With(loginLimiter.Limit).Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Get("/session", authHandler.Session)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		publicLimiter := appmiddleware.NewRateLimiter(30, time.Minute)
		r.With(publicLimiter.Limit).Get("/posts", postsHandler.ListPublic)
		r.With(publicLimiter.Limit).Get("/posts/search", postsHandler.Search)
		r.Post("/posts/increment-view", postsHandler.IncrementView)
		r.Get("/posts/{id}", postsHandler.Get)
		r.Get("/posts/{id}/comments", commentsHandler.List)
		r.Get("/posts/{id}/comments/events", commentsHandler.Events)
		r.With(auth.RequireSession).Post("/posts/{id}/comments", commentsHandler.Create)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireSession)
		r.Use(auth.RequireAdmin(cfg.Store))
		r.Get("/posts", adminHandler.ListPosts)
		r.Post("/posts", adminHandler.Create)
		r.Put("/posts/{id}", adminHandler.Update)
		r.Post("/posts/{id}/publish", adminHandler.Publish)
		r.Post("/posts/{id}/unpublish", adminHandler.Unpublish)
		r.Delete("/posts/{id}", adminHandler.Delete)
	})

	return r
}
