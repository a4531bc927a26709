package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/radiant-graph/internal/model"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &PostgresRepository{db: mock}, mock
}

func TestCountOrdersByZipCode(t *testing.T) {
	tests := []struct {
		name  string
		role  model.AddressRole
		query string
	}{
		{name: "billing joins billing address", role: model.AddressRoleBilling, query: queryZipCodeByBilling},
		{name: "shipping joins shipping links", role: model.AddressRoleShipping, query: queryZipCodeByShipping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WillReturnRows(mock.NewRows([]string{"zip_code", "order_count"}).
					AddRow("10001", int64(3)).
					AddRow("94105", int64(1)))

			got, err := repo.CountOrdersByZipCode(context.Background(), tt.role)
			require.NoError(t, err)
			assert.Equal(t, []model.ZipCodeCount{
				{ZipCode: "10001", OrderCount: 3},
				{ZipCode: "94105", OrderCount: 1},
			}, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestZipCodeQueries(t *testing.T) {
	assert.Contains(t, queryZipCodeByBilling, "JOIN addresses a ON a.id = o.billing_address_id")
	assert.Contains(t, queryZipCodeByShipping, "COUNT(DISTINCT o.id)")
	assert.Contains(t, queryZipCodeByShipping, "JOIN addresses a ON a.id = osa.address_id")
}

func TestCountOrdersByHour(t *testing.T) {
	repo, mock := newMockRepo(t)

	assert.Contains(t, queryOrdersByHour, "EXTRACT(HOUR FROM o.order_date AT TIME ZONE 'UTC')")

	mock.ExpectQuery(regexp.QuoteMeta(queryOrdersByHour)).
		WillReturnRows(mock.NewRows([]string{"hour", "order_count"}).
			AddRow(9, int64(4)).
			AddRow(23, int64(1)))

	got, err := repo.CountOrdersByHour(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.BucketCount{{Key: 9, Count: 4}, {Key: 23, Count: 1}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOrdersByWeekday_KeepsSundayZero(t *testing.T) {
	repo, mock := newMockRepo(t)

	assert.Contains(t, queryOrdersByWeekday, "EXTRACT(DOW FROM o.order_date AT TIME ZONE 'UTC')")

	mock.ExpectQuery(regexp.QuoteMeta(queryOrdersByWeekday)).
		WillReturnRows(mock.NewRows([]string{"day_of_week", "order_count"}).
			AddRow(0, int64(2)).
			AddRow(1, int64(5)))

	got, err := repo.CountOrdersByWeekday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.BucketCount{{Key: 0, Count: 2}, {Key: 1, Count: 5}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountInStoreOrdersByCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)

	assert.Contains(t, queryInStoreByCustomer, "ORDER BY in_store_order_count DESC, c.id ASC")
	assert.Contains(t, queryInStoreByCustomer, "LIMIT $2")

	mock.ExpectQuery(regexp.QuoteMeta(queryInStoreByCustomer)).
		WithArgs("in_store", 5).
		WillReturnRows(mock.NewRows([]string{"id", "first_name", "last_name", "email", "in_store_order_count"}).
			AddRow(int64(2), "Ada", "Lovelace", "ada@example.com", int64(3)).
			AddRow(int64(7), "Alan", "Turing", "alan@example.com", int64(3)))

	got, err := repo.CountInStoreOrdersByCustomer(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []model.InStoreCustomer{
		{CustomerID: 2, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", InStoreOrderCount: 3},
		{CustomerID: 7, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", InStoreOrderCount: 3},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOrdersByHour_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	boom := errors.New("boom")
	mock.ExpectQuery(regexp.QuoteMeta(queryOrdersByHour)).WillReturnError(boom)

	_, err := repo.CountOrdersByHour(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "count orders by hour")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchCustomers_EscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE email ILIKE $1`)).
		WithArgs(`%50\%%`).
		WillReturnRows(mock.NewRows([]string{"id", "first_name", "last_name", "email", "telephone"}).
			AddRow(int64(1), "Ada", "Lovelace", "ada50%@example.com", "+15551234567"))

	got, err := repo.SearchCustomers(context.Background(), "50%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
