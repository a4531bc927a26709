// Package model содержит доменные сущности сервиса заказов.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer представляет покупателя.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

// NewCustomer содержит данные для создания покупателя.
type NewCustomer struct {
	FirstName string
	LastName  string
	Email     string
	Telephone string
}

// Address описывает почтовый адрес покупателя.
type Address struct {
	ID                int64   `json:"id"`
	CustomerID        int64   `json:"customer_id"`
	StreetAddress     string  `json:"street_address"`
	ApartmentSuite    *string `json:"apartment_suite"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	ZipCode           string  `json:"zip_code"`
	IsBillingAddress  bool    `json:"is_billing_address"`
	IsShippingAddress bool    `json:"is_shipping_address"`
}

// NewAddress содержит данные для создания адреса.
type NewAddress struct {
	StreetAddress     string
	ApartmentSuite    *string
	City              string
	State             string
	ZipCode           string
	IsBillingAddress  bool
	IsShippingAddress bool
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderType описывает канал, через который оформлен заказ.
type OrderType string

const (
	OrderTypeInStore OrderType = "in_store"
	OrderTypeOnline  OrderType = "online"
)

// ShippingAddress связывает заказ с адресом доставки.
// Sequence задаёт порядок доставки и начинается с 1.
type ShippingAddress struct {
	AddressID int64 `json:"address_id"`
	Sequence  int   `json:"sequence"`
}

// Order описывает заказ покупателя.
type Order struct {
	ID                int64             `json:"id"`
	CustomerID        int64             `json:"customer_id"`
	OrderDate         time.Time         `json:"order_date"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	Status            OrderStatus       `json:"status"`
	OrderType         OrderType         `json:"order_type"`
	BillingAddressID  int64             `json:"billing_address_id"`
	ShippingAddresses []ShippingAddress `json:"shipping_addresses"`
}

// NewOrder содержит данные для создания заказа.
type NewOrder struct {
	OrderDate         time.Time
	TotalAmount       decimal.Decimal
	Status            OrderStatus
	OrderType         OrderType
	BillingAddressID  int64
	ShippingAddresses []ShippingAddress
}

// AddressRole определяет, через какую связь заказ соединяется с адресом.
type AddressRole string

const (
	AddressRoleBilling  AddressRole = "billing"
	AddressRoleShipping AddressRole = "shipping"
)

// SortDirection задаёт направление сортировки отчёта.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// BucketCount: сырой результат группировки хранилища: ключ корзины и число заказов.
type BucketCount struct {
	Key   int
	Count int64
}

// ZipCodeCount: число заказов по почтовому индексу.
type ZipCodeCount struct {
	ZipCode    string `json:"zip_code"`
	OrderCount int64  `json:"order_count"`
}

// HourCount: число заказов за час суток (0–23, UTC).
type HourCount struct {
	Hour       int   `json:"hour"`
	OrderCount int64 `json:"order_count"`
}

// WeekdayCount: число заказов за день недели, 0 = понедельник, 6 = воскресенье.
type WeekdayCount struct {
	DayOfWeek  int   `json:"day_of_week"`
	OrderCount int64 `json:"order_count"`
}

// InStoreCustomer: покупатель и количество его заказов в магазине.
type InStoreCustomer struct {
	CustomerID        int64  `json:"customer_id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	InStoreOrderCount int64  `json:"in_store_order_count"`
}
