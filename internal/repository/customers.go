package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/radiant-graph/internal/model"
)

const customerColumns = `id, first_name, last_name, email, telephone`

// CreateCustomer создаёт нового покупателя.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, c model.NewCustomer) (*model.Customer, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO customers (first_name, last_name, email, telephone) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.FirstName, c.LastName, c.Email, c.Telephone,
	).Scan(&id)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrCustomerExists, constraint)
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return &model.Customer{
		ID:        id,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Telephone: c.Telephone,
	}, nil
}

// GetCustomer возвращает покупателя по идентификатору.
func (r *PostgresRepository) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return r.getCustomerBy(ctx, `id = $1`, id)
}

// GetCustomerByEmail возвращает покупателя по email.
func (r *PostgresRepository) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.getCustomerBy(ctx, `email = $1`, email)
}

// GetCustomerByTelephone возвращает покупателя по номеру телефона.
func (r *PostgresRepository) GetCustomerByTelephone(ctx context.Context, telephone string) (*model.Customer, error) {
	return r.getCustomerBy(ctx, `telephone = $1`, telephone)
}

func (r *PostgresRepository) getCustomerBy(ctx context.Context, where string, arg any) (*model.Customer, error) {
	var c model.Customer
	err := r.withRetry(ctx, func() error {
		return r.db.QueryRow(ctx,
			`SELECT `+customerColumns+` FROM customers WHERE `+where,
			arg,
		).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Telephone)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// ListCustomers возвращает страницу покупателей.
func (r *PostgresRepository) ListCustomers(ctx context.Context, skip, limit int) ([]model.Customer, error) {
	return r.queryCustomers(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY id OFFSET $1 LIMIT $2`,
		skip, limit,
	)
}

// SearchCustomers ищет покупателей по подстроке в email, телефоне, имени или фамилии.
func (r *PostgresRepository) SearchCustomers(ctx context.Context, query string) ([]model.Customer, error) {
	return r.queryCustomers(ctx,
		`SELECT `+customerColumns+`
		 FROM customers
		 WHERE email ILIKE $1 OR telephone ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1
		 ORDER BY id`,
		likePattern(query),
	)
}

func (r *PostgresRepository) queryCustomers(ctx context.Context, sql string, args ...any) ([]model.Customer, error) {
	var res []model.Customer
	err := r.withRetry(ctx, func() error {
		rows, err := r.db.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		res, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Customer, error) {
			var c model.Customer
			err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Telephone)
			return c, err
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	return res, nil
}

// CreateAddress сохраняет адрес покупателя.
func (r *PostgresRepository) CreateAddress(ctx context.Context, customerID int64, a model.NewAddress) (*model.Address, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO addresses
		     (customer_id, street_address, apartment_suite, city, state, zip_code, is_billing_address, is_shipping_address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		customerID, a.StreetAddress, a.ApartmentSuite, a.City, a.State, a.ZipCode, a.IsBillingAddress, a.IsShippingAddress,
	).Scan(&id)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgerrcode.ForeignKeyViolation {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("create address: %w", err)
	}

	return &model.Address{
		ID:                id,
		CustomerID:        customerID,
		StreetAddress:     a.StreetAddress,
		ApartmentSuite:    a.ApartmentSuite,
		City:              a.City,
		State:             a.State,
		ZipCode:           a.ZipCode,
		IsBillingAddress:  a.IsBillingAddress,
		IsShippingAddress: a.IsShippingAddress,
	}, nil
}

// GetCustomerAddresses возвращает все адреса покупателя.
func (r *PostgresRepository) GetCustomerAddresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	var res []model.Address
	err := r.withRetry(ctx, func() error {
		rows, err := r.db.Query(ctx,
			`SELECT id, customer_id, street_address, apartment_suite, city, state, zip_code, is_billing_address, is_shipping_address
			 FROM addresses
			 WHERE customer_id = $1
			 ORDER BY id`,
			customerID,
		)
		if err != nil {
			return err
		}
		res, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Address, error) {
			var a model.Address
			err := row.Scan(&a.ID, &a.CustomerID, &a.StreetAddress, &a.ApartmentSuite, &a.City, &a.State,
				&a.ZipCode, &a.IsBillingAddress, &a.IsShippingAddress)
			return a, err
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	return res, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern строит шаблон поиска подстроки. Символы \, % и _ из запроса
// экранируются обратной косой чертой, экранирующим символом LIKE по умолчанию.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
