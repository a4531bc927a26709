package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommiddleware "github.com/mmeshcher/radiant-graph/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса заказов.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}

	r.Get("/health", h.Health)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{DisableCompression: true}))
	}

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Get("/search/{query}", h.SearchCustomers)
		r.Get("/{customer_id}", h.GetCustomer)
		r.Post("/{customer_id}/addresses", h.CreateAddress)
		r.Get("/{customer_id}/addresses", h.GetCustomerAddresses)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/search", h.SearchOrders)
		r.Post("/customers/{customer_id}/orders", h.CreateOrder)
		r.Get("/customers/{customer_id}/orders", h.GetCustomerOrders)
		r.Get("/{order_id}", h.GetOrder)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/orders/zip-code", h.OrdersByZipCode)
		r.Get("/orders/time-of-day", h.OrdersByHour)
		r.Get("/orders/day-of-week", h.OrdersByWeekday)
		r.Get("/customers/top-in-store", h.TopInStoreCustomers)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
