// Package httpapi is the transport layer: it maps HTTP requests onto the
// account, catalog, order, and payment services and their error kinds onto
// status codes. No business rule lives here.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopd/internal/accounts"
	"shopd/internal/catalog"
	"shopd/internal/orders"
	"shopd/internal/payments"
)

// API bundles the services behind the HTTP surface.
type API struct {
	accounts *accounts.Service
	catalog  *catalog.Service
	orders   *orders.Service
	payments *payments.Service
}

// New wires the HTTP API.
func New(accountsSvc *accounts.Service, catalogSvc *catalog.Service, ordersSvc *orders.Service, paymentsSvc *payments.Service) *API {
	return &API{
		accounts: accountsSvc,
		catalog:  catalogSvc,
		orders:   ordersSvc,
		payments: paymentsSvc,
	}
}

// RouterOptions control cross-cutting router behaviour.
type RouterOptions struct {
	AllowedOrigins []string
	RateLimit      int
}

// Routes constructs the chi router containing all endpoints.
func (a *API) Routes(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	if opts.RateLimit > 0 {
		r.Use(httprate.Limit(opts.RateLimit, time.Minute))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/register", a.handleRegister)
			r.Post("/verify", a.handleVerifyRegistration)
			r.Post("/login", a.handleLogin)
			r.Post("/otp/resend", a.handleResendOTP)
			r.Post("/password/reset", a.handleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(a.requireUser)
				r.Post("/logout", a.handleLogout)
				r.Get("/me", a.handleMe)
				r.Post("/email/change", a.handleChangeEmailRequest)
				r.Post("/email/change/verify", a.handleVerifyChangeEmail)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", a.handleListProducts)
			r.Get("/{productID}", a.handleGetProduct)

			r.Group(func(r chi.Router) {
				r.Use(a.requireSuperuser)
				r.Post("/", a.handleCreateProduct)
				r.Put("/{productID}", a.handleUpdateProduct)
				r.Post("/{productID}/variants", a.handleAddVariant)
				r.Post("/{productID}/media", a.handleAttachMedia)
				r.Delete("/media/{mediaID}", a.handleRemoveMedia)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(a.requireUser)
			r.Post("/", a.handleCreateOrder)
			r.Get("/", a.handleListOrders)
			r.Get("/{orderID}", a.handleGetOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(a.requireUser)
			r.Post("/payments", a.handleCreatePayment)
		})
	})

	return r
}
