package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/radiant-graph/internal/model"
	"github.com/mmeshcher/radiant-graph/internal/repository"
)

type stubRepo struct {
	byEmail    *model.Customer
	byEmailErr error

	byPhone    *model.Customer
	byPhoneErr error

	created       *model.Customer
	createCalls   int
	createCustErr error

	customer    *model.Customer
	customerErr error

	addresses []model.Address

	orderInput *model.NewOrder
	orderErr   error

	customerOrdersCalled bool
}

func (s *stubRepo) Close() error { return nil }

func (s *stubRepo) CreateCustomer(ctx context.Context, c model.NewCustomer) (*model.Customer, error) {
	s.createCalls++
	return s.created, s.createCustErr
}

func (s *stubRepo) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return s.customer, s.customerErr
}

func (s *stubRepo) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return s.byEmail, s.byEmailErr
}

func (s *stubRepo) GetCustomerByTelephone(ctx context.Context, telephone string) (*model.Customer, error) {
	return s.byPhone, s.byPhoneErr
}

func (s *stubRepo) ListCustomers(ctx context.Context, skip, limit int) ([]model.Customer, error) {
	return nil, nil
}

func (s *stubRepo) SearchCustomers(ctx context.Context, query string) ([]model.Customer, error) {
	return nil, nil
}

func (s *stubRepo) CreateAddress(ctx context.Context, customerID int64, a model.NewAddress) (*model.Address, error) {
	return &model.Address{ID: 1, CustomerID: customerID, ZipCode: a.ZipCode}, nil
}

func (s *stubRepo) GetCustomerAddresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	return s.addresses, nil
}

func (s *stubRepo) CreateOrder(ctx context.Context, customerID int64, o model.NewOrder) (*model.Order, error) {
	s.orderInput = &o
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	return &model.Order{ID: 10, CustomerID: customerID, OrderDate: o.OrderDate}, nil
}

func (s *stubRepo) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return nil, repository.ErrOrderNotFound
}

func (s *stubRepo) ListOrders(ctx context.Context, skip, limit int) ([]model.Order, error) {
	return nil, nil
}

func (s *stubRepo) GetCustomerOrders(ctx context.Context, customerID int64, skip, limit int) ([]model.Order, error) {
	s.customerOrdersCalled = true
	return nil, nil
}

func (s *stubRepo) SearchOrders(ctx context.Context, query string, skip, limit int) ([]model.Order, error) {
	return nil, nil
}

func notFoundRepo() *stubRepo {
	return &stubRepo{
		byEmailErr: repository.ErrCustomerNotFound,
		byPhoneErr: repository.ErrCustomerNotFound,
	}
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	repo := notFoundRepo()
	repo.byEmail = &model.Customer{ID: 1}
	repo.byEmailErr = nil

	svc := NewService(repo)

	_, err := svc.CreateCustomer(context.Background(), model.NewCustomer{Email: "a@b.c"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("CreateCustomer must not be called on duplicate email")
	}
}

func TestCreateCustomer_DuplicateTelephone(t *testing.T) {
	repo := notFoundRepo()
	repo.byPhone = &model.Customer{ID: 1}
	repo.byPhoneErr = nil

	svc := NewService(repo)

	_, err := svc.CreateCustomer(context.Background(), model.NewCustomer{Email: "a@b.c", Telephone: "+11234567890"})
	if !errors.Is(err, ErrTelephoneTaken) {
		t.Fatalf("expected ErrTelephoneTaken, got %v", err)
	}
}

func TestCreateCustomer_LookupFailurePropagates(t *testing.T) {
	repo := notFoundRepo()
	repo.byEmailErr = errors.New("connection refused")

	svc := NewService(repo)

	_, err := svc.CreateCustomer(context.Background(), model.NewCustomer{})
	if err == nil || errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestCreateCustomer_Success(t *testing.T) {
	repo := notFoundRepo()
	repo.created = &model.Customer{ID: 7, Email: "a@b.c"}

	svc := NewService(repo)

	c, err := svc.CreateCustomer(context.Background(), model.NewCustomer{Email: "a@b.c"})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}
	if c.ID != 7 {
		t.Fatalf("ID = %d, want 7", c.ID)
	}
}

func TestCreateAddress_CustomerMissing(t *testing.T) {
	repo := &stubRepo{customerErr: repository.ErrCustomerNotFound}
	svc := NewService(repo)

	_, err := svc.CreateAddress(context.Background(), 5, model.NewAddress{})
	if !errors.Is(err, repository.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func validOrder() model.NewOrder {
	return model.NewOrder{
		TotalAmount:      decimal.RequireFromString("100.00"),
		Status:           model.OrderStatusCompleted,
		OrderType:        model.OrderTypeOnline,
		BillingAddressID: 1,
		ShippingAddresses: []model.ShippingAddress{
			{AddressID: 2, Sequence: 1},
			{AddressID: 1, Sequence: 2},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 15, 4, 5, 0, time.FixedZone("UTC+3", 3*3600))

	tests := []struct {
		name    string
		mutate  func(o *model.NewOrder)
		wantErr error
	}{
		{
			name:   "valid order",
			mutate: func(o *model.NewOrder) {},
		},
		{
			name:    "foreign billing address",
			mutate:  func(o *model.NewOrder) { o.BillingAddressID = 99 },
			wantErr: ErrInvalidBillingAddress,
		},
		{
			name:    "foreign shipping address",
			mutate:  func(o *model.NewOrder) { o.ShippingAddresses[1].AddressID = 99 },
			wantErr: ErrInvalidShippingAddress,
		},
		{
			name:    "no shipping address",
			mutate:  func(o *model.NewOrder) { o.ShippingAddresses = nil },
			wantErr: ErrInvalidShippingAddress,
		},
		{
			name:    "zero sequence",
			mutate:  func(o *model.NewOrder) { o.ShippingAddresses[0].Sequence = 0 },
			wantErr: ErrInvalidSequence,
		},
		{
			name:    "duplicate sequence",
			mutate:  func(o *model.NewOrder) { o.ShippingAddresses[1].Sequence = 1 },
			wantErr: ErrInvalidSequence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{
				customer:  &model.Customer{ID: 3},
				addresses: []model.Address{{ID: 1}, {ID: 2}},
			}
			svc := NewService(repo)
			svc.now = func() time.Time { return fixed }

			o := validOrder()
			tt.mutate(&o)

			_, err := svc.CreateOrder(context.Background(), 3, o)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if repo.orderInput != nil {
					t.Fatalf("order must not be stored")
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateOrder error: %v", err)
			}
			if !repo.orderInput.OrderDate.Equal(fixed) || repo.orderInput.OrderDate.Location() != time.UTC {
				t.Fatalf("order date = %v, want %v in UTC", repo.orderInput.OrderDate, fixed)
			}
		})
	}
}

func TestGetCustomerOrders_CustomerMissing(t *testing.T) {
	repo := &stubRepo{customerErr: repository.ErrCustomerNotFound}
	svc := NewService(repo)

	_, err := svc.GetCustomerOrders(context.Background(), 1, 0, 100)
	if !errors.Is(err, repository.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if repo.customerOrdersCalled {
		t.Fatalf("orders must not be queried for a missing customer")
	}
}
