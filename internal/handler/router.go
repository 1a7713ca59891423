package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rize-social/rize/internal/config"
	"github.com/rize-social/rize/internal/importer"
	"github.com/rize-social/rize/internal/middleware"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/service"
)

// Services groups the business services the router exposes.
type Services struct {
	Profiles *service.ProfileService
	Sections *service.SectionService
	Posts    *service.PostService
	Content  *service.ContentService
	Social   *service.SocialService
	Media    *service.MediaService
	Imports  *importer.Service
}

// NewRouter builds the HTTP router with all API routes. ready lists the
// dependencies checked by /health/ready.
func NewRouter(cfg *config.Config, s Services, ready ...observability.Pinger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery)
	r.Use(observability.MetricsMiddleware(cfg.ServiceName))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	auth := &middleware.Auth{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Resolver: s.Profiles,
	}
	limit := middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)

	ph := NewProfileHandler(s.Profiles)
	sh := NewSectionHandler(s.Sections)
	posts := NewPostHandler(s.Posts)
	ch := NewContentHandler(s.Content)
	soc := NewSocialHandler(s.Social)
	mh := NewMediaHandler(s.Media, cfg.MaxUploadMB<<20)
	ih := NewImportHandler(s.Imports)

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads; a token, when sent, personalises viewer flags.
		r.Group(func(r chi.Router) {
			r.Use(auth.Optional)

			r.Get("/usernames/{username}/available", ph.Available)
			r.Get("/profiles/search", ph.Search)
			r.Get("/profiles/{username}", ph.Get)
			r.Get("/profiles/{username}/sections", sh.Visible)
			r.Get("/profiles/{username}/posts", posts.ListByUsername)
			r.Get("/profiles/{username}/posts/top", posts.Top)
			r.Get("/profiles/{username}/social", soc.List)
			r.Get("/profiles/{username}/{kind}", ch.List)

			r.Get("/feed", posts.Feed)
			r.Get("/posts/{id}", posts.Get)
			r.Get("/posts/{id}/comments", posts.ListComments)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Required)

			r.Get("/me", ph.Me)
			r.Get("/me/sections", sh.Mine)
			r.Get("/me/bookmarks", posts.Bookmarked)
			r.Get("/imports/{id}", ih.Get)

			// Mutations
			r.Group(func(r chi.Router) {
				r.Use(limit)

				r.Post("/profiles", ph.Claim)
				r.Patch("/me", ph.Update)
				r.Delete("/me", ph.Delete)
				r.Post("/me/onboarding", ph.CompleteOnboarding)
				r.Post("/me/walkthrough", ph.CompleteWalkthrough)
				r.Post("/me/live", ph.SetLive)

				r.Post("/me/sections", sh.Initialize)
				r.Put("/me/sections/order", sh.Reorder)
				r.Post("/me/sections/toggle", sh.Toggle)

				r.Post("/posts", posts.Create)
				r.Delete("/posts/{id}", posts.Delete)
				r.Put("/posts/{id}/like", posts.Like)
				r.Delete("/posts/{id}/like", posts.Unlike)
				r.Put("/posts/{id}/bookmark", posts.Bookmark)
				r.Delete("/posts/{id}/bookmark", posts.Unbookmark)
				r.Post("/posts/{id}/comments", posts.AddComment)
				r.Delete("/comments/{id}", posts.DeleteComment)

				r.Put("/me/social/{platform}", soc.Upsert)
				r.Delete("/me/social/{platform}", soc.Remove)

				r.Post("/me/media", mh.Upload)
				r.Post("/me/media/presign", mh.Presign)

				r.Post("/me/imports", ih.Request)

				r.Post("/me/{kind}", ch.Create)
				r.Put("/me/{kind}/order", ch.Reposition)
				r.Put("/me/{kind}/{id}", ch.Update)
				r.Delete("/me/{kind}/{id}", ch.Delete)
			})
		})
	})

	// Health
	r.Get("/health", observability.HealthLiveHandler)
	r.Get("/health/ready", observability.HealthReadyHandler(ready...))

	return r
}
