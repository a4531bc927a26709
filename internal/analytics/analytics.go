// Package analytics строит аналитические отчёты по заказам поверх
// сгруппированных счётчиков хранилища.
//
// Все операции синхронны и не хранят состояния: ошибки хранилища
// возвращаются вызывающему без изменений, собственных ошибок пакет не порождает.
package analytics

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/mmeshcher/radiant-graph/internal/model"
)

// Значения параметров отчётов по умолчанию.
const (
	DefaultHourLimit     = 10
	DefaultWeekdayLimit  = 7
	DefaultInStoreLimit  = 5
	DefaultAddressRole   = model.AddressRoleBilling
	DefaultSortDirection = model.SortDesc
)

// Store описывает примитивы группировки, которые предоставляет хранилище.
type Store interface {
	CountOrdersByZipCode(ctx context.Context, role model.AddressRole) ([]model.ZipCodeCount, error)
	CountOrdersByHour(ctx context.Context) ([]model.BucketCount, error)
	// CountOrdersByWeekday возвращает ключи в соглашении хранилища: 0 = воскресенье.
	CountOrdersByWeekday(ctx context.Context) ([]model.BucketCount, error)
	CountInStoreOrdersByCustomer(ctx context.Context, limit int) ([]model.InStoreCustomer, error)
}

// Service формирует отчёты по заказам.
type Service struct {
	store Store
}

// NewService создаёт сервис отчётов поверх хранилища.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ParseAddressRole разбирает тип адреса. Любое значение, кроме "billing",
// трактуется как адрес доставки.
func ParseAddressRole(s string) model.AddressRole {
	if s == string(model.AddressRoleBilling) {
		return model.AddressRoleBilling
	}
	return model.AddressRoleShipping
}

// ParseSortDirection разбирает направление сортировки без учёта регистра.
// Всё, что не "asc", означает сортировку по убыванию.
func ParseSortDirection(s string) model.SortDirection {
	if strings.EqualFold(s, string(model.SortAsc)) {
		return model.SortAsc
	}
	return model.SortDesc
}

// OrdersByZipCode возвращает число заказов по почтовым индексам адресов
// выбранной роли, отсортированное по счётчику в заданном направлении.
// Порядок индексов с равными счётчиками не гарантируется.
func (s *Service) OrdersByZipCode(ctx context.Context, role model.AddressRole, dir model.SortDirection) ([]model.ZipCodeCount, error) {
	rows, err := s.store.CountOrdersByZipCode(ctx, role)
	if err != nil {
		return nil, err
	}

	res := make([]model.ZipCodeCount, 0, len(rows))
	for _, r := range rows {
		if r.OrderCount > 0 {
			res = append(res, r)
		}
	}

	slices.SortStableFunc(res, func(a, b model.ZipCodeCount) int {
		if dir == model.SortAsc {
			return cmp.Compare(a.OrderCount, b.OrderCount)
		}
		return cmp.Compare(b.OrderCount, a.OrderCount)
	})

	return res, nil
}

// OrdersByHour возвращает до limit часов суток: сначала часы с заказами
// по убыванию числа заказов, затем пустые часы по возрастанию.
func (s *Service) OrdersByHour(ctx context.Context, limit int) ([]model.HourCount, error) {
	counts, err := s.store.CountOrdersByHour(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rankBuckets(densify(hoursPerDay, counts), limit)

	res := make([]model.HourCount, 0, len(ranked))
	for _, b := range ranked {
		res = append(res, model.HourCount{Hour: b.key, OrderCount: b.count})
	}
	return res, nil
}

// OrdersByWeekday возвращает до limit дней недели (0 = понедельник)
// в том же порядке, что и OrdersByHour.
func (s *Service) OrdersByWeekday(ctx context.Context, limit int) ([]model.WeekdayCount, error) {
	counts, err := s.store.CountOrdersByWeekday(ctx)
	if err != nil {
		return nil, err
	}

	remapped := make([]model.BucketCount, 0, len(counts))
	for _, c := range counts {
		if c.Key < 0 || c.Key >= daysPerWeek {
			continue
		}
		remapped = append(remapped, model.BucketCount{Key: MondayFirst(c.Key), Count: c.Count})
	}

	ranked := rankBuckets(densify(daysPerWeek, remapped), limit)

	res := make([]model.WeekdayCount, 0, len(ranked))
	for _, b := range ranked {
		res = append(res, model.WeekdayCount{DayOfWeek: b.key, OrderCount: b.count})
	}
	return res, nil
}

// TopInStoreCustomers возвращает до limit покупателей с наибольшим числом
// заказов в магазине. При равенстве счётчиков выше стоит меньший идентификатор.
func (s *Service) TopInStoreCustomers(ctx context.Context, limit int) ([]model.InStoreCustomer, error) {
	if limit <= 0 {
		return []model.InStoreCustomer{}, nil
	}

	rows, err := s.store.CountInStoreOrdersByCustomer(ctx, limit)
	if err != nil {
		return nil, err
	}

	res := make([]model.InStoreCustomer, 0, len(rows))
	for _, r := range rows {
		if r.InStoreOrderCount > 0 {
			res = append(res, r)
		}
	}

	slices.SortFunc(res, func(a, b model.InStoreCustomer) int {
		if c := cmp.Compare(b.InStoreOrderCount, a.InStoreOrderCount); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID, b.CustomerID)
	})

	return res[:clampLimit(limit, len(res))], nil
}
