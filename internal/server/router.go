package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	ordercontroller "storefront/internal/order/controller"
	productcontroller "storefront/internal/product/controller"
)

func NewRouter(
	productCtrl *productcontroller.Controller,
	orderCtrl *ordercontroller.Controller,
	cartCtrl *cart.Controller,
	authMW *auth.Middleware,
	db *sql.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(metrics.HTTPMiddleware)

	r.Get("/healthz", healthHandler(db, rdb))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products/{id}", productCtrl.HandleGetProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.Route("/orders", func(r chi.Router) {
				r.With(auth.RequireRoles(domain.RoleCustomer)).Post("/", orderCtrl.HandleCreateOrder)
				r.With(auth.RequireRoles(domain.RoleCustomer)).Get("/my-orders", orderCtrl.HandleListMyOrders)
				r.With(auth.RequireRoles(domain.RoleOrderManager, domain.RoleAdmin)).Get("/all", orderCtrl.HandleListAllOrders)
				// Ownership for customers is checked in the usecase.
				r.Get("/{id}", orderCtrl.HandleGetOrder)
				r.With(auth.RequireRoles(domain.RoleOrderManager, domain.RoleAdmin)).Put("/{id}/status", orderCtrl.HandleUpdateStatus)
				r.With(auth.RequireRoles(domain.RoleCustomer)).Post("/{id}/cancel", orderCtrl.HandleCancelOrder)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Use(auth.RequireRoles(domain.RoleCustomer))
				r.Get("/", cartCtrl.HandleGetCart)
				r.Post("/items", cartCtrl.HandleAddItem)
			})
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func healthHandler(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
