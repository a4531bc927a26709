package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/radiant-graph/internal/model"
)

const orderColumns = `o.id, o.customer_id, o.order_date, o.total_amount, o.status, o.order_type, o.billing_address_id`

// CreateOrder сохраняет заказ вместе с адресами доставки в одной транзакции.
func (r *PostgresRepository) CreateOrder(ctx context.Context, customerID int64, o model.NewOrder) (*model.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	orderDate := o.OrderDate.UTC()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (customer_id, order_date, total_amount, status, order_type, billing_address_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		customerID, orderDate, o.TotalAmount, string(o.Status), string(o.OrderType), o.BillingAddressID,
	).Scan(&id)
	if err != nil {
		return nil, mapOrderWriteError("insert order", err)
	}

	for _, sa := range o.ShippingAddresses {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_shipping_addresses (order_id, address_id, sequence) VALUES ($1, $2, $3)`,
			id, sa.AddressID, sa.Sequence,
		)
		if err != nil {
			return nil, mapOrderWriteError("insert shipping address", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	shipping := make([]model.ShippingAddress, len(o.ShippingAddresses))
	copy(shipping, o.ShippingAddresses)
	sortShipping(shipping)

	return &model.Order{
		ID:                id,
		CustomerID:        customerID,
		OrderDate:         orderDate,
		TotalAmount:       o.TotalAmount,
		Status:            o.Status,
		OrderType:         o.OrderType,
		BillingAddressID:  o.BillingAddressID,
		ShippingAddresses: shipping,
	}, nil
}

func mapOrderWriteError(op string, err error) error {
	code, constraint := pgErrorCode(err)
	switch {
	case code == pgerrcode.ForeignKeyViolation && strings.Contains(constraint, "customer"):
		return ErrCustomerNotFound
	case code == pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrInvalidAddress, constraint)
	case code == pgerrcode.UniqueViolation || code == pgerrcode.CheckViolation:
		return fmt.Errorf("%w: %s", ErrInvalidAddress, constraint)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// GetOrder возвращает заказ по идентификатору.
func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	orders, err := r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return &orders[0], nil
}

// ListOrders возвращает страницу заказов.
func (r *PostgresRepository) ListOrders(ctx context.Context, skip, limit int) ([]model.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders o ORDER BY o.id OFFSET $1 LIMIT $2`,
		skip, limit,
	)
}

// GetCustomerOrders возвращает страницу заказов покупателя.
func (r *PostgresRepository) GetCustomerOrders(ctx context.Context, customerID int64, skip, limit int) ([]model.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.customer_id = $1 ORDER BY o.id OFFSET $2 LIMIT $3`,
		customerID, skip, limit,
	)
}

// SearchOrders ищет заказы по подстроке в email или телефоне покупателя.
func (r *PostgresRepository) SearchOrders(ctx context.Context, query string, skip, limit int) ([]model.Order, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Order{}, nil
	}

	return r.queryOrders(ctx,
		`SELECT `+orderColumns+`
		 FROM orders o
		 JOIN customers c ON c.id = o.customer_id
		 WHERE c.email ILIKE $1 OR c.telephone ILIKE $1
		 ORDER BY o.id
		 OFFSET $2 LIMIT $3`,
		likePattern(query), skip, limit,
	)
}

func (r *PostgresRepository) queryOrders(ctx context.Context, sql string, args ...any) ([]model.Order, error) {
	var orders []model.Order
	err := r.withRetry(ctx, func() error {
		rows, err := r.db.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		orders, err = pgx.CollectRows(rows, scanOrder)
		if err != nil {
			return err
		}
		return r.attachShipping(ctx, orders)
	})
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.CollectableRow) (model.Order, error) {
	var (
		o         model.Order
		status    string
		orderType string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.TotalAmount, &status, &orderType, &o.BillingAddressID)
	if err != nil {
		return o, err
	}
	o.OrderDate = o.OrderDate.UTC()
	o.Status = model.OrderStatus(status)
	o.OrderType = model.OrderType(orderType)
	o.ShippingAddresses = []model.ShippingAddress{}
	return o, nil
}

func (r *PostgresRepository) attachShipping(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = i
	}

	rows, err := r.db.Query(ctx,
		`SELECT order_id, address_id, sequence
		 FROM order_shipping_addresses
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, sequence`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			sa      model.ShippingAddress
		)
		if err := rows.Scan(&orderID, &sa.AddressID, &sa.Sequence); err != nil {
			return fmt.Errorf("scan shipping address: %w", err)
		}
		i := byID[orderID]
		orders[i].ShippingAddresses = append(orders[i].ShippingAddresses, sa)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}

func sortShipping(addrs []model.ShippingAddress) {
	slices.SortFunc(addrs, func(a, b model.ShippingAddress) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
}
