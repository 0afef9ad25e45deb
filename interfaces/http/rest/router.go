// Package rest wires the HTTP surface: router, middleware, and handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"skinsight/application/ports"
	"skinsight/application/services"
	"skinsight/interfaces/http/rest/handlers"
	"skinsight/interfaces/http/rest/middleware"
	"skinsight/pkg/auth"
	"skinsight/pkg/observability"
)

// Router creates and configures the HTTP router.
type Router struct {
	accounts      *services.AccountService
	routines      *services.RoutineService
	insights      *services.InsightsService
	catalog       *services.CatalogService
	tokens        *auth.TokenManager
	sessions      ports.SessionStore
	metrics       *observability.Metrics
	secureCookies bool
	logger        *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(
	accounts *services.AccountService,
	routines *services.RoutineService,
	insights *services.InsightsService,
	catalog *services.CatalogService,
	tokens *auth.TokenManager,
	sessions ports.SessionStore,
	metrics *observability.Metrics,
	secureCookies bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		accounts:      accounts,
		routines:      routines,
		insights:      insights,
		catalog:       catalog,
		tokens:        tokens,
		sessions:      sessions,
		metrics:       metrics,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks and metrics
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	authHandler := handlers.NewAuthHandler(rt.accounts, rt.secureCookies, rt.logger)
	requireSession := middleware.RequireSession(rt.tokens, rt.sessions, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/sign-in", authHandler.SignIn)
			r.With(requireSession).Post("/sign-out", authHandler.SignOut)
		})

		// Everything else requires a signed-in session.
		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			routineHandler := handlers.NewRoutineHandler(rt.routines, rt.logger)
			r.Get("/routine", routineHandler.Get)
			r.Put("/routine", routineHandler.Submit)

			r.Get("/products/search", handlers.NewCatalogHandler(rt.catalog, rt.logger).Search)

			r.Get("/insights/graph", handlers.NewInsightsHandler(rt.insights, rt.logger).Graph)
		})
	})

	return router
}

// healthCheck handles health check requests.
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
