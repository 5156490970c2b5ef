package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/config"
	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/imaging"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d *db.DB, jwtSecret string, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	authHandler := &AuthHandler{DB: d, JWTSecret: jwtSecret, Logger: logger}
	itemsHandler := &ItemsHandler{
		DB:     d,
		Search: cfg.Search,
		Images: imaging.Processor{
			MaxDimension: cfg.Images.MaxDimension,
			JPEGQuality:  cfg.Images.JPEGQuality,
		},
		Logger: logger,
	}
	searchHandler := &SearchHandler{DB: d, Search: cfg.Search, Logger: logger}
	locationsHandler := &LocationsHandler{DB: d, Search: cfg.Search, Logger: logger}
	adminHandler := &AdminHandler{DB: d, Logger: logger}

	r.Route("/api", func(r chi.Router) {
		// Public.
		r.Get("/healthcheck", Healthcheck)
		r.Post("/auth/login", authHandler.Login)

		// Authenticated.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtSecret, d, logger))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)
			r.Put("/auth/password", authHandler.ChangePassword)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", itemsHandler.List)
				r.Post("/", itemsHandler.Create)
				r.Get("/{id}", itemsHandler.Get)
				r.Put("/{id}", itemsHandler.Update)
				r.Delete("/{id}", itemsHandler.Delete)
				r.Put("/{id}/image", itemsHandler.UploadImage)
				r.Get("/{id}/image", itemsHandler.GetImage)
			})

			r.Get("/search/autocomplete", searchHandler.Autocomplete)
			r.Get("/search/suggestions", searchHandler.Suggestions)

			r.Get("/areas", locationsHandler.ListAreas)
			r.Get("/areas/{area}", locationsHandler.GetArea)
			r.Get("/containers", locationsHandler.ListContainers)
			r.Get("/containers/{container}", locationsHandler.GetContainer)
			r.Get("/bins", locationsHandler.ListBins)
			r.Get("/bins/{bin}", locationsHandler.GetBin)
			r.Get("/tags", locationsHandler.ListTags)
			r.Get("/tags/{tag}", locationsHandler.GetTag)

			r.Get("/admin/index", adminHandler.IndexStatus)
			r.Post("/admin/reindex", adminHandler.Reindex)
		})
	})

	return r
}
