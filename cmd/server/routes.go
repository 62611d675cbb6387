package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"

	"github.com/rahul4469/area-analyzer/internal/config"
	"github.com/rahul4469/area-analyzer/internal/controllers"
	"github.com/rahul4469/area-analyzer/internal/middleware"
	"github.com/rahul4469/area-analyzer/internal/models"
	"github.com/rahul4469/area-analyzer/internal/services"
	"github.com/rahul4469/area-analyzer/internal/views"
	"github.com/rahul4469/area-analyzer/templates"
)

func newRouter(cfg *config.Config, store *models.SessionStore) (http.Handler, error) {
	// Setup Services ---------------
	backend := services.NewBackendClient(cfg.Backend.APIBase, cfg.Backend.Timeout)
	queries := services.NewQueryService(backend)
	analyzer := services.NewPlaceholderAnalyzer(nil)
	charts := services.NewChartRenderer()

	// Templates ---------------
	appTpl, err := views.ParseFS(templates.FS, "pages/app.gohtml")
	if err != nil {
		return nil, fmt.Errorf("app template: %w", err)
	}
	placeholderTpl, err := views.ParseFS(templates.FS, "pages/placeholder.gohtml")
	if err != nil {
		return nil, fmt.Errorf("placeholder template: %w", err)
	}

	// Setup Controllers ---------------
	appCtrl := controllers.NewAppController(
		queries,
		backend,
		controllers.AppTemplates{App: appTpl},
		cfg.Limits.MaxUploadBytes(),
		backend.BaseURL(),
	)
	placeholderCtrl := controllers.NewPlaceholderController(
		analyzer,
		charts,
		controllers.PlaceholderTemplates{Page: placeholderTpl},
	)

	// Middleware ---------------
	sessions := middleware.NewSessionMiddleware(store, cfg.Security.SessionCookieName, cfg.Security.SecureCookies)
	csrfMw := csrf.Protect(
		[]byte(cfg.Security.CSRFSecret),
		csrf.Secure(cfg.Security.SecureCookies),
		csrf.Path("/"),
	)
	corsMw := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", controllers.HealthCheck)

	// ---- HTML pages ----
	r.Group(func(r chi.Router) {
		r.Use(sessions.SetSession)
		if !cfg.Security.SecureCookies {
			r.Use(plaintextHTTP)
		}

		// The size limit has to run before CSRF, which parses the multipart
		// body to find the token.
		uploadLimit := middleware.LimitBody(
			cfg.Limits.MaxUploadBytes(),
			csrfMw(http.HandlerFunc(appCtrl.UploadTooLarge)),
		)
		r.With(uploadLimit, csrfMw).Post("/upload", appCtrl.PostUpload)

		r.Group(func(r chi.Router) {
			r.Use(csrfMw)

			r.Get("/", appCtrl.GetApp)
			r.Post("/analyze", appCtrl.PostAnalyze)
			r.Post("/compare", appCtrl.PostCompare)
			r.Get("/download", appCtrl.GetDownload)

			r.Get("/placeholder", placeholderCtrl.GetPlaceholder)
			r.Post("/placeholder", placeholderCtrl.PostPlaceholder)
			r.Get("/placeholder/chart/{id}.png", placeholderCtrl.GetChart)
			r.Get("/placeholder/export.xlsx", placeholderCtrl.GetExport)
		})
	})

	// ---- JSON API ----
	// Cross-origin callers send no cookie; they must not allocate a session.
	r.Route("/api", func(r chi.Router) {
		r.Use(corsMw)
		r.Use(sessions.LoadSession)
		r.Get("/analyze", appCtrl.APIAnalyze)
		r.Get("/compare", appCtrl.APICompare)
	})

	return r, nil
}

// plaintextHTTP tells gorilla/csrf the request came over plain HTTP so its
// origin check does not insist on https in development.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
