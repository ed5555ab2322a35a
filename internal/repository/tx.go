package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner executes a function inside one database transaction. The mutation
// and its audit write share the same transaction so they commit or roll back
// as a unit.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewTxRunner wraps a gorm handle as a TxRunner.
func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
