package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/radiant-graph/internal/model"
)

const (
	queryZipCodeByBilling = `
		SELECT a.zip_code, COUNT(o.id) AS order_count
		FROM orders o
		JOIN addresses a ON a.id = o.billing_address_id
		GROUP BY a.zip_code`

	// Заказ с несколькими адресами доставки в одном индексе считается один раз.
	queryZipCodeByShipping = `
		SELECT a.zip_code, COUNT(DISTINCT o.id) AS order_count
		FROM order_shipping_addresses osa
		JOIN addresses a ON a.id = osa.address_id
		JOIN orders o ON o.id = osa.order_id
		GROUP BY a.zip_code`

	queryOrdersByHour = `
		SELECT EXTRACT(HOUR FROM o.order_date AT TIME ZONE 'UTC')::int AS hour, COUNT(o.id) AS order_count
		FROM orders o
		GROUP BY 1`

	queryOrdersByWeekday = `
		SELECT EXTRACT(DOW FROM o.order_date AT TIME ZONE 'UTC')::int AS day_of_week, COUNT(o.id) AS order_count
		FROM orders o
		GROUP BY 1`

	queryInStoreByCustomer = `
		SELECT c.id, c.first_name, c.last_name, c.email, COUNT(o.id) AS in_store_order_count
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		WHERE o.order_type = $1
		GROUP BY c.id, c.first_name, c.last_name, c.email
		ORDER BY in_store_order_count DESC, c.id ASC
		LIMIT $2`
)

// CountOrdersByZipCode считает заказы по почтовым индексам адресов выбранной роли.
func (r *PostgresRepository) CountOrdersByZipCode(ctx context.Context, role model.AddressRole) ([]model.ZipCodeCount, error) {
	query := queryZipCodeByShipping
	if role == model.AddressRoleBilling {
		query = queryZipCodeByBilling
	}

	var res []model.ZipCodeCount
	err := r.withRetry(ctx, func() error {
		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return err
		}
		res, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ZipCodeCount, error) {
			var z model.ZipCodeCount
			err := row.Scan(&z.ZipCode, &z.OrderCount)
			return z, err
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("count orders by zip code: %w", err)
	}
	return res, nil
}

// CountOrdersByHour считает заказы по часу суток (UTC).
func (r *PostgresRepository) CountOrdersByHour(ctx context.Context) ([]model.BucketCount, error) {
	res, err := r.countBuckets(ctx, queryOrdersByHour)
	if err != nil {
		return nil, fmt.Errorf("count orders by hour: %w", err)
	}
	return res, nil
}

// CountOrdersByWeekday считает заказы по дню недели в нумерации PostgreSQL: 0 = воскресенье.
func (r *PostgresRepository) CountOrdersByWeekday(ctx context.Context) ([]model.BucketCount, error) {
	res, err := r.countBuckets(ctx, queryOrdersByWeekday)
	if err != nil {
		return nil, fmt.Errorf("count orders by weekday: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) countBuckets(ctx context.Context, query string) ([]model.BucketCount, error) {
	var res []model.BucketCount
	err := r.withRetry(ctx, func() error {
		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return err
		}
		res, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.BucketCount, error) {
			var b model.BucketCount
			err := row.Scan(&b.Key, &b.Count)
			return b, err
		})
		return err
	})
	return res, err
}

// CountInStoreOrdersByCustomer возвращает до limit покупателей с наибольшим числом заказов в магазине.
func (r *PostgresRepository) CountInStoreOrdersByCustomer(ctx context.Context, limit int) ([]model.InStoreCustomer, error) {
	var res []model.InStoreCustomer
	err := r.withRetry(ctx, func() error {
		rows, err := r.db.Query(ctx, queryInStoreByCustomer, string(model.OrderTypeInStore), limit)
		if err != nil {
			return err
		}
		res, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.InStoreCustomer, error) {
			var c model.InStoreCustomer
			err := row.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Email, &c.InStoreOrderCount)
			return c, err
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("count in-store orders: %w", err)
	}
	return res, nil
}
