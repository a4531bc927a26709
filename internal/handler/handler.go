// Package handler содержит HTTP-обработчики API сервиса заказов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mmeshcher/radiant-graph/internal/health"
	"github.com/mmeshcher/radiant-graph/internal/middleware"
	"github.com/mmeshcher/radiant-graph/internal/model"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
	maxLimit     = 1000
)

// Service определяет контракт бизнес-логики покупателей и заказов.
type Service interface {
	CreateCustomer(ctx context.Context, c model.NewCustomer) (*model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	ListCustomers(ctx context.Context, skip, limit int) ([]model.Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]model.Customer, error)
	CreateAddress(ctx context.Context, customerID int64, a model.NewAddress) (*model.Address, error)
	GetCustomerAddresses(ctx context.Context, customerID int64) ([]model.Address, error)
	CreateOrder(ctx context.Context, customerID int64, o model.NewOrder) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, skip, limit int) ([]model.Order, error)
	GetCustomerOrders(ctx context.Context, customerID int64, skip, limit int) ([]model.Order, error)
	SearchOrders(ctx context.Context, query string, skip, limit int) ([]model.Order, error)
}

// Analytics определяет контракт аналитических отчётов.
type Analytics interface {
	OrdersByZipCode(ctx context.Context, role model.AddressRole, dir model.SortDirection) ([]model.ZipCodeCount, error)
	OrdersByHour(ctx context.Context, limit int) ([]model.HourCount, error)
	OrdersByWeekday(ctx context.Context, limit int) ([]model.WeekdayCount, error)
	TopInStoreCustomers(ctx context.Context, limit int) ([]model.InStoreCustomer, error)
}

// HealthChecker проверяет доступность хранилища.
type HealthChecker interface {
	Check(ctx context.Context) health.Status
}

// Handler реализует HTTP-обработчики API сервиса заказов.
type Handler struct {
	service   Service
	analytics Analytics
	health    HealthChecker
	logger    *zap.Logger
	metrics   *middleware.Metrics
	gatherer  prometheus.Gatherer
}

// Option настраивает необязательные зависимости обработчика.
type Option func(*Handler)

// WithMetrics подключает сбор метрик и эндпоинт /metrics.
func WithMetrics(m *middleware.Metrics, g prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = g
	}
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, a Analytics, hc HealthChecker, logger *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:   s,
		analytics: a,
		health:    hc,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	if id, ok := middleware.GetRequestIDFromContext(r.Context()); ok {
		fields = append(fields, zap.String("request_id", id))
	}
	h.logger.Error(msg, append(fields, zap.Error(err))...)
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

var errInvalidID = errors.New("invalid id")

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// queryInt читает неотрицательный целый параметр запроса, def используется по умолчанию.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	if v < 0 {
		return 0, errors.New(name + " must be non-negative")
	}
	return v, nil
}

// pagination читает skip и limit: skip >= 0, 1 <= limit <= 1000.
func pagination(r *http.Request) (skip, limit int, err error) {
	skip, err = queryInt(r, "skip", defaultSkip)
	if err != nil {
		return 0, 0, err
	}
	limit, err = queryInt(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, errors.New("limit must be between 1 and 1000")
	}
	return skip, limit, nil
}

// Health сообщает о состоянии сервиса и подключения к БД.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.health.Check(r.Context())
	if !st.Healthy() {
		h.logger.Warn("health check failed", zap.String("database", st.Database))
		writeJSON(w, http.StatusServiceUnavailable, st)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
