package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/radiant-graph/internal/model"
	"github.com/mmeshcher/radiant-graph/internal/repository"
	"github.com/mmeshcher/radiant-graph/internal/service"
	"github.com/mmeshcher/radiant-graph/internal/validation"
)

type shippingAddressRequest struct {
	AddressID int64 `json:"address_id" validate:"required,gt=0"`
	Sequence  int   `json:"sequence" validate:"required,gte=1"`
}

type orderRequest struct {
	OrderDate         *time.Time               `json:"order_date"`
	TotalAmount       decimal.Decimal          `json:"total_amount"`
	Status            string                   `json:"status" validate:"required,oneof=pending completed cancelled"`
	OrderType         string                   `json:"order_type" validate:"required,oneof=in_store online"`
	BillingAddressID  int64                    `json:"billing_address_id" validate:"required,gt=0"`
	ShippingAddresses []shippingAddressRequest `json:"shipping_addresses" validate:"dive"`
}

func (req orderRequest) toModel() model.NewOrder {
	o := model.NewOrder{
		TotalAmount:       req.TotalAmount,
		Status:            model.OrderStatus(req.Status),
		OrderType:         model.OrderType(req.OrderType),
		BillingAddressID:  req.BillingAddressID,
		ShippingAddresses: make([]model.ShippingAddress, 0, len(req.ShippingAddresses)),
	}
	if req.OrderDate != nil {
		o.OrderDate = *req.OrderDate
	}
	for _, sa := range req.ShippingAddresses {
		o.ShippingAddresses = append(o.ShippingAddresses, model.ShippingAddress{
			AddressID: sa.AddressID,
			Sequence:  sa.Sequence,
		})
	}
	return o
}

// CreateOrder оформляет заказ покупателя.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.TotalAmount.IsNegative() {
		writeError(w, http.StatusUnprocessableEntity, "total_amount must be non-negative")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), customerID, req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			writeError(w, http.StatusNotFound, "Customer not found")
		case errors.Is(err, service.ErrInvalidBillingAddress):
			writeError(w, http.StatusBadRequest, "Invalid billing address")
		case errors.Is(err, service.ErrInvalidShippingAddress),
			errors.Is(err, service.ErrInvalidSequence),
			errors.Is(err, repository.ErrInvalidAddress):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.internalError(w, r, "create order error", err, zap.Int64("customerID", customerID))
		}
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetCustomerOrders возвращает страницу заказов покупателя.
func (h *Handler) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id")
		return
	}
	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.service.GetCustomerOrders(r.Context(), customerID, skip, limit)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.internalError(w, r, "get customer orders error", err, zap.Int64("customerID", customerID))
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// SearchOrders ищет заказы по email или телефону покупателя.
func (h *Handler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusUnprocessableEntity, "query is required")
		return
	}
	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.service.SearchOrders(r.Context(), query, skip, limit)
	if err != nil {
		h.internalError(w, r, "search orders error", err, zap.String("query", query))
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "order_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.internalError(w, r, "get order error", err, zap.Int64("orderID", id))
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// ListOrders возвращает страницу всех заказов.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.service.ListOrders(r.Context(), skip, limit)
	if err != nil {
		h.internalError(w, r, "list orders error", err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
