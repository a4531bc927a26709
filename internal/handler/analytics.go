package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/radiant-graph/internal/analytics"
)

// OrdersByZipCode возвращает число заказов по почтовым индексам.
// address_type выбирает связь с адресом, order_by задаёт направление сортировки.
func (h *Handler) OrdersByZipCode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role := analytics.ParseAddressRole(q.Get("address_type"))
	dir := analytics.ParseSortDirection(q.Get("order_by"))

	rows, err := h.analytics.OrdersByZipCode(r.Context(), role, dir)
	if err != nil {
		h.internalError(w, r, "orders by zip code error", err, zap.String("addressType", string(role)))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// OrdersByHour возвращает часы суток с наибольшим числом заказов.
func (h *Handler) OrdersByHour(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", analytics.DefaultHourLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.analytics.OrdersByHour(r.Context(), limit)
	if err != nil {
		h.internalError(w, r, "orders by hour error", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// OrdersByWeekday возвращает дни недели с наибольшим числом заказов.
func (h *Handler) OrdersByWeekday(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", analytics.DefaultWeekdayLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.analytics.OrdersByWeekday(r.Context(), limit)
	if err != nil {
		h.internalError(w, r, "orders by weekday error", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// TopInStoreCustomers возвращает покупателей с наибольшим числом заказов в магазине.
func (h *Handler) TopInStoreCustomers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", analytics.DefaultInStoreLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.analytics.TopInStoreCustomers(r.Context(), limit)
	if err != nil {
		h.internalError(w, r, "top in-store customers error", err, zap.Int("limit", limit))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
