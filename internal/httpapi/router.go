// Package httpapi exposes the storefront and project board over REST/JSON.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mmynk/shopboard/internal/auth"
	"github.com/mmynk/shopboard/internal/httputil"
	"github.com/mmynk/shopboard/internal/middleware"
	"github.com/mmynk/shopboard/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options carries the dependencies of the API handlers.
type Options struct {
	Products   *service.ProductService
	Projects   *service.ProjectService
	Auth       *service.AuthService
	Checkout   *service.CheckoutService
	JWTManager *auth.JWTManager
	Store      Pinger

	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// API holds the handlers for every route.
type API struct {
	products   *service.ProductService
	projects   *service.ProjectService
	auth       *service.AuthService
	checkout   *service.CheckoutService
	jwtManager *auth.JWTManager
	store      Pinger
	metrics    http.Handler
}

// New creates an API from opts.
func New(opts Options) *API {
	return &API{
		products:   opts.Products,
		projects:   opts.Projects,
		auth:       opts.Auth,
		checkout:   opts.Checkout,
		jwtManager: opts.JWTManager,
		store:      opts.Store,
		metrics:    opts.Metrics,
	}
}

// Routes registers every endpoint on a new ServeMux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", a.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", a.handleGetProduct)
	mux.HandleFunc("POST /api/products", a.handleCreateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", a.handleDeleteProduct)

	mux.HandleFunc("POST /api/auth/register", a.handleRegister)
	mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	mux.Handle("GET /api/auth/me", middleware.RequireAuth(a.jwtManager)(http.HandlerFunc(a.handleMe)))

	mux.HandleFunc("POST /api/checkout", a.handleCheckout)
	mux.HandleFunc("GET /api/orders/{id}", a.handleGetOrder)

	mux.HandleFunc("POST /api/projects", a.handleCreateProject)
	mux.HandleFunc("GET /api/projects", a.handleListProjects)
	mux.HandleFunc("GET /api/projects/{id}", a.handleGetProject)
	mux.HandleFunc("DELETE /api/projects/{id}", a.handleDeleteProject)
	mux.HandleFunc("POST /api/projects/{id}/tasks", a.handleAddTask)
	mux.HandleFunc("PATCH /api/projects/{id}/tasks/{taskId}", a.handleUpdateTask)
	mux.HandleFunc("DELETE /api/projects/{id}/tasks/{taskId}", a.handleRemoveTask)

	mux.HandleFunc("GET /healthz", a.handleHealth)
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.ErrorResponse(w, http.StatusNotFound, httputil.ErrorBody{
			Error: "no route for " + r.Method + " " + r.URL.Path,
			Code:  httputil.CodeNotFound,
		})
	})

	return mux
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		slog.Error("Health check failed", "error", err)
		httputil.JSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httputil.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
