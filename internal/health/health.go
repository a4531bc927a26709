// Package health проверяет доступность зависимостей сервиса.
package health

import (
	"context"
	"database/sql"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)

const checkTimeout = 2 * time.Second

// Status описывает результат проверки.
type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Healthy сообщает, что все зависимости доступны.
func (s Status) Healthy() bool {
	return s.Status == StatusHealthy
}

// Checker выполняет проверку соединения с БД простым запросом.
type Checker struct {
	db *sql.DB
}

// NewChecker создаёт проверку поверх открытого соединения.
func NewChecker(db *sql.DB) *Checker {
	return &Checker{db: db}
}

// Check выполняет SELECT 1 и возвращает итоговый статус.
func (c *Checker) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var one int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return Status{Status: StatusUnhealthy, Database: DatabaseDisconnected}
	}
	return Status{Status: StatusHealthy, Database: DatabaseConnected}
}
