package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/revrec/backend/internal/domain/revenue"
)

type txContextKey struct{}

// GormUnitOfWork implements revenue.UnitOfWork on top of a GORM transaction.
// The transaction handle travels in the context; repositories created from
// the same *gorm.DB pick it up through dbFromContext, so every repository
// call inside the callback joins the same transaction.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTransaction runs fn inside a single database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (u *GormUnitOfWork) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transaction handle stored in the context, or the
// fallback connection when no transaction is in flight.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback
}

var _ revenue.UnitOfWork = (*GormUnitOfWork)(nil)
