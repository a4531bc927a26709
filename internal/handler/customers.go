package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/radiant-graph/internal/model"
	"github.com/mmeshcher/radiant-graph/internal/repository"
	"github.com/mmeshcher/radiant-graph/internal/service"
	"github.com/mmeshcher/radiant-graph/internal/validation"
)

type customerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone" validate:"required,telephone"`
}

type addressRequest struct {
	StreetAddress     string  `json:"street_address" validate:"required"`
	ApartmentSuite    *string `json:"apartment_suite"`
	City              string  `json:"city" validate:"required"`
	State             string  `json:"state" validate:"required,len=2"`
	ZipCode           string  `json:"zip_code" validate:"required,zipcode"`
	IsBillingAddress  bool    `json:"is_billing_address"`
	IsShippingAddress *bool   `json:"is_shipping_address"`
}

// CreateCustomer регистрирует нового покупателя.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	c, err := h.service.CreateCustomer(r.Context(), model.NewCustomer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Telephone: req.Telephone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, service.ErrTelephoneTaken):
			writeError(w, http.StatusBadRequest, "Telephone number already registered")
		case errors.Is(err, repository.ErrCustomerExists):
			writeError(w, http.StatusBadRequest, "Customer already registered")
		default:
			h.internalError(w, r, "create customer error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// ListCustomers возвращает страницу покупателей.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customers, err := h.service.ListCustomers(r.Context(), skip, limit)
	if err != nil {
		h.internalError(w, r, "list customers error", err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// GetCustomer возвращает покупателя по идентификатору.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.internalError(w, r, "get customer error", err, zap.Int64("customerID", id))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// SearchCustomers ищет покупателей по имени, фамилии, email или телефону.
func (h *Handler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")

	customers, err := h.service.SearchCustomers(r.Context(), query)
	if err != nil {
		h.internalError(w, r, "search customers error", err, zap.String("query", query))
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// CreateAddress добавляет адрес покупателю. Параметр is_billing помечает адрес платёжным.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	isBilling := false
	if raw := r.URL.Query().Get("is_billing"); raw != "" {
		isBilling, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "is_billing must be a boolean")
			return
		}
	}

	var req addressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	shipping := true
	if req.IsShippingAddress != nil {
		shipping = *req.IsShippingAddress
	}

	a, err := h.service.CreateAddress(r.Context(), id, model.NewAddress{
		StreetAddress:     req.StreetAddress,
		ApartmentSuite:    req.ApartmentSuite,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		IsBillingAddress:  req.IsBillingAddress || isBilling,
		IsShippingAddress: shipping,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.internalError(w, r, "create address error", err, zap.Int64("customerID", id))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GetCustomerAddresses возвращает все адреса покупателя.
func (h *Handler) GetCustomerAddresses(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer id")
		return
	}

	addrs, err := h.service.GetCustomerAddresses(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.internalError(w, r, "get addresses error", err, zap.Int64("customerID", id))
		return
	}
	writeJSON(w, http.StatusOK, addrs)
}
