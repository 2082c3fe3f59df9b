// Package router sets up all HTTP routes and middleware chains for the
// blog API. Routes are grouped into public reads, authenticated writes,
// and admin-only category management.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/handlers"
	"blogapi/internal/middleware"
)

// likeLimit bounds like toggles per caller to curb toggle spam.
const (
	likeLimit       = 30
	likeLimitWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(resolver middleware.Resolver, auth *handlers.Auth, categories *handlers.Categories, posts *handlers.Posts, comments *handlers.Comments) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadCaller(resolver))

	likeLimiter := middleware.NewRateLimiter(likeLimit, likeLimitWindow)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Auth.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)

			// 2FA requires auth but NOT a verified token yet.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", auth.Setup2FA)
				r.Post("/2fa/verify", auth.Verify2FA)
			})
		})

		// Categories: public reads, admin writes.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/{slug}", categories.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireAdmin)
				r.Post("/", categories.Create)
				r.Put("/{slug}", categories.Update)
				r.Delete("/{slug}", categories.Delete)
			})
		})

		// Posts.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/{slug}", posts.Get)
			r.Get("/{slug}/comments", comments.List)
			r.Post("/{slug}/comments", comments.Create)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireVerified)
				r.Post("/", posts.Create)
				r.Put("/{slug}", posts.Update)
				r.Delete("/{slug}", posts.Delete)
				r.Post("/{slug}/image", posts.UploadImage)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(likeLimiter.Middleware)
				r.Post("/{slug}/like", posts.ToggleLike)
			})
		})

		// Comment deletion addresses the comment directly.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Delete("/comments/{id}", comments.Delete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
