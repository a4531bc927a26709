package analytics

import (
	"cmp"
	"slices"

	"github.com/mmeshcher/radiant-graph/internal/model"
)

const (
	hoursPerDay = 24
	daysPerWeek = 7
)

// bucket: одна корзина фиксированного домена после уплотнения.
type bucket struct {
	key   int
	count int64
}

// densify раскладывает разреженные счётчики по массиву из size слотов.
// Слоты без данных остаются нулевыми, ключи вне [0, size) отбрасываются,
// повторяющиеся ключи суммируются.
func densify(size int, counts []model.BucketCount) []bucket {
	slots := make([]bucket, size)
	for i := range slots {
		slots[i].key = i
	}

	for _, c := range counts {
		if c.Key < 0 || c.Key >= size {
			continue
		}
		slots[c.Key].count += c.Count
	}

	return slots
}

// rankBuckets упорядочивает корзины: сначала ненулевые по убыванию счётчика
// (при равенстве по возрастанию ключа), затем нулевые по возрастанию ключа.
// Результат обрезается до limit.
func rankBuckets(slots []bucket, limit int) []bucket {
	nonzero := make([]bucket, 0, len(slots))
	zero := make([]bucket, 0, len(slots))

	for _, b := range slots {
		if b.count > 0 {
			nonzero = append(nonzero, b)
		} else {
			zero = append(zero, b)
		}
	}

	slices.SortFunc(nonzero, func(a, b bucket) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	slices.SortFunc(zero, func(a, b bucket) int {
		return cmp.Compare(a.key, b.key)
	})

	ranked := append(nonzero, zero...)
	return ranked[:clampLimit(limit, len(ranked))]
}

// MondayFirst переводит номер дня недели из соглашения PostgreSQL
// (EXTRACT(DOW), 0 = воскресенье) в соглашение API (0 = понедельник).
func MondayFirst(dow int) int {
	return ((dow%daysPerWeek)+daysPerWeek+daysPerWeek-1) % daysPerWeek
}

func clampLimit(limit, size int) int {
	if limit < 0 {
		return 0
	}
	if limit > size {
		return size
	}
	return limit
}
