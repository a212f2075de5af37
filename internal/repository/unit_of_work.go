package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork scopes a set of writes to one database transaction. The callback
// receives the transaction handle; returning an error (or panicking) rolls
// every write back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormUnitOfWork struct{ db *gorm.DB }

func NewUnitOfWork(db *gorm.DB) UnitOfWork { return &gormUnitOfWork{db: db} }

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(ctx).Transaction(fn)
}
