package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/recipes-be/internal/api/handlers"
	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/metrics"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/isdelr/recipes-be/internal/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Dependencies bundles everything the router hands to its handlers.
type Dependencies struct {
	Recipes services.RecipeServiceProvider
	Users   services.UserServiceProvider
	Events  services.EventServiceProvider
	Tokens  *auth.TokenIssuer
	DB      handlers.Pinger
	Hub     *websocket.Hub // nil disables the live activity feed

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	AllowedOrigins []string
	LoginLimiter   *rate.Limiter // nil disables login rate limiting
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.HTTP.Middleware)
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	var loginMetrics *metrics.LoginMetrics
	if deps.Metrics != nil {
		loginMetrics = deps.Metrics.Login
	}
	recipeHandler := handlers.NewRecipeHandler(deps.Recipes, deps.Events)
	if deps.Hub != nil {
		recipeHandler.WithNotifier(deps.Hub)
	}
	userHandler := handlers.NewUserHandler(deps.Users, deps.Tokens, loginMetrics)
	eventHandler := handlers.NewEventHandler(deps.Events)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	requireAuth := auth.Middleware(deps.Tokens)

	r.Get("/healthz", healthHandler.Check)
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.With(RateLimit(deps.LoginLimiter, loginMetrics)).Post("/login", userHandler.Login)

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", recipeHandler.GetAll)
		r.With(requireAuth).Post("/", recipeHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", recipeHandler.Get)
			r.With(requireAuth).Patch("/", recipeHandler.Update)
			r.With(requireAuth).Delete("/", recipeHandler.Delete)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", userHandler.GetMe)
		r.Get("/events", eventHandler.GetRecent)
		if deps.Hub != nil {
			r.Get("/events/ws", websocket.NewHandler(deps.Hub, origins).Serve)
		}
	})

	return r
}
