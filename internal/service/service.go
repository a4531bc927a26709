// Package service реализует бизнес-логику работы с покупателями, адресами и заказами.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmeshcher/radiant-graph/internal/model"
	"github.com/mmeshcher/radiant-graph/internal/repository"
)

var (
	// ErrEmailTaken возвращается, если email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrTelephoneTaken возвращается, если телефон уже зарегистрирован.
	ErrTelephoneTaken = errors.New("telephone number already registered")
	// ErrInvalidBillingAddress возвращается, если платёжный адрес не принадлежит покупателю.
	ErrInvalidBillingAddress = errors.New("invalid billing address")
	// ErrInvalidShippingAddress возвращается, если адрес доставки не принадлежит покупателю.
	ErrInvalidShippingAddress = errors.New("invalid shipping address")
	// ErrInvalidSequence возвращается при неположительном или повторяющемся номере доставки.
	ErrInvalidSequence = errors.New("invalid shipping sequence")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateCustomer(ctx context.Context, c model.NewCustomer) (*model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	GetCustomerByTelephone(ctx context.Context, telephone string) (*model.Customer, error)
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

// Service содержит бизнес-логику сервиса заказов.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// CreateCustomer регистрирует покупателя, предварительно проверяя занятость email и телефона.
func (s *Service) CreateCustomer(ctx context.Context, c model.NewCustomer) (*model.Customer, error) {
	if _, err := s.repo.GetCustomerByEmail(ctx, c.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrCustomerNotFound) {
		return nil, err
	}

	if _, err := s.repo.GetCustomerByTelephone(ctx, c.Telephone); err == nil {
		return nil, ErrTelephoneTaken
	} else if !errors.Is(err, repository.ErrCustomerNotFound) {
		return nil, err
	}

	return s.repo.CreateCustomer(ctx, c)
}

// GetCustomer возвращает покупателя по идентификатору.
func (s *Service) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// ListCustomers возвращает страницу покупателей.
func (s *Service) ListCustomers(ctx context.Context, skip, limit int) ([]model.Customer, error) {
	return s.repo.ListCustomers(ctx, skip, limit)
}

// SearchCustomers ищет покупателей по подстроке.
func (s *Service) SearchCustomers(ctx context.Context, query string) ([]model.Customer, error) {
	return s.repo.SearchCustomers(ctx, query)
}

// CreateAddress добавляет адрес существующему покупателю.
func (s *Service) CreateAddress(ctx context.Context, customerID int64, a model.NewAddress) (*model.Address, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.CreateAddress(ctx, customerID, a)
}

// GetCustomerAddresses возвращает адреса существующего покупателя.
func (s *Service) GetCustomerAddresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.GetCustomerAddresses(ctx, customerID)
}

// CreateOrder оформляет заказ. Платёжный адрес и все адреса доставки
// должны принадлежать покупателю, а номера доставки должны быть положительными и уникальными.
func (s *Service) CreateOrder(ctx context.Context, customerID int64, o model.NewOrder) (*model.Order, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	if err := validateSequences(o.ShippingAddresses); err != nil {
		return nil, err
	}

	addrs, err := s.repo.GetCustomerAddresses(ctx, customerID)
	if err != nil {
		return nil, err
	}

	owned := make(map[int64]struct{}, len(addrs))
	for _, a := range addrs {
		owned[a.ID] = struct{}{}
	}

	if _, ok := owned[o.BillingAddressID]; !ok {
		return nil, ErrInvalidBillingAddress
	}
	for _, sa := range o.ShippingAddresses {
		if _, ok := owned[sa.AddressID]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrInvalidShippingAddress, sa.AddressID)
		}
	}

	if o.OrderDate.IsZero() {
		o.OrderDate = s.now()
	}
	o.OrderDate = o.OrderDate.UTC()

	return s.repo.CreateOrder(ctx, customerID, o)
}

func validateSequences(addrs []model.ShippingAddress) error {
	if len(addrs) == 0 {
		return fmt.Errorf("%w: at least one shipping address is required", ErrInvalidShippingAddress)
	}

	seen := make(map[int]struct{}, len(addrs))
	for _, sa := range addrs {
		if sa.Sequence < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidSequence, sa.Sequence)
		}
		if _, dup := seen[sa.Sequence]; dup {
			return fmt.Errorf("%w: duplicate %d", ErrInvalidSequence, sa.Sequence)
		}
		seen[sa.Sequence] = struct{}{}
	}
	return nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// ListOrders возвращает страницу заказов.
func (s *Service) ListOrders(ctx context.Context, skip, limit int) ([]model.Order, error) {
	return s.repo.ListOrders(ctx, skip, limit)
}

// GetCustomerOrders возвращает страницу заказов существующего покупателя.
func (s *Service) GetCustomerOrders(ctx context.Context, customerID int64, skip, limit int) ([]model.Order, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.GetCustomerOrders(ctx, customerID, skip, limit)
}

// SearchOrders ищет заказы по email или телефону покупателя.
func (s *Service) SearchOrders(ctx context.Context, query string, skip, limit int) ([]model.Order, error) {
	return s.repo.SearchOrders(ctx, query, skip, limit)
}
