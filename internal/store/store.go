// Package store is the entity store for departments, employees, attendance
// and admin logs. Every method takes the caller's context; a Store obtained
// inside Transaction runs all its queries in that transaction.
package store

import (
	"context"

	"github.com/suteetoe/hrms/pkg/metrics"
	"gorm.io/gorm"
)

type Store struct {
	db      *gorm.DB
	metrics *metrics.Domain
}

func New(db *gorm.DB, m *metrics.Domain) *Store {
	return &Store{db: db, metrics: m}
}

// Transaction runs fn as one unit of work. Returning an error from fn rolls back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	defer s.track("transaction")()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, metrics: s.metrics})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) track(operation string) func() {
	return s.metrics.TrackDBOperation(operation)
}
