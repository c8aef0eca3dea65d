package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/coffee-shop/app"
	"github.com/upb/coffee-shop/handlers"
	"github.com/upb/coffee-shop/internal/observability"
	"github.com/upb/coffee-shop/middleware"
	"github.com/upb/coffee-shop/utils"
)

// Permissions required by the gated drink routes
const (
	PermGetDrinksDetail = "get:drinks-detail"
	PermPostDrinks      = "post:drinks"
	PermPatchDrinks     = "patch:drinks"
	PermDeleteDrinks    = "delete:drinks"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Tracing(observability.Tracer()))
	r.Use(middleware.Recoverer(deps.Logger))
	if deps.Config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         deps.Config.CORS.MaxAge,
	}))

	// Health check endpoints
	var db handlers.HealthChecker
	if deps.DB != nil {
		db = deps.DB
	}
	health := handlers.NewHealthHandler(db, deps.Logger)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	drinks := handlers.NewDrinkHandler(deps.DrinkService, deps.Logger)
	auth := deps.AuthMiddleware

	r.Get("/drinks", drinks.HandleListDrinks)
	r.With(auth.RequirePermission(PermGetDrinksDetail)).Get("/drinks-detail", drinks.HandleListDrinksDetail)
	r.With(auth.RequirePermission(PermPostDrinks)).Post("/drinks", drinks.HandleCreateDrink)
	r.With(auth.RequirePermission(PermPatchDrinks)).Patch("/drinks/{id:[0-9]+}", drinks.HandleUpdateDrink)
	r.With(auth.RequirePermission(PermDeleteDrinks)).Delete("/drinks/{id:[0-9]+}", drinks.HandleDeleteDrink)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w)
	})

	return r
}
