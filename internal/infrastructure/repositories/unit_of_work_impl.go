package repositories

import (
	"context"
	"database/sql"
	"fmt"

	domainRepos "dinewallet.backend/internal/domain/repositories"
	"gorm.io/gorm"
)

type contextKey string

const (
	txKey contextKey = "tx_db"
)

var (
	beginTx = func(db *gorm.DB, opts ...*sql.TxOptions) *gorm.DB {
		return db.Begin(opts...)
	}
	commitTx = func(tx *gorm.DB) error {
		return tx.Commit().Error
	}
)

// UnitOfWorkImpl implements UnitOfWork using GORM
type UnitOfWorkImpl struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(db *gorm.DB) domainRepos.UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

// Do executes the given function within a transaction scope.
// If ctx already carries a transaction, fn joins it and the outermost Do commits.
func (u *UnitOfWorkImpl) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	return u.run(ctx, nil, fn)
}

// Snapshot runs fn in a read-only transaction. On postgres it uses REPEATABLE READ
// so every query in fn sees the same committed state.
func (u *UnitOfWorkImpl) Snapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	var opts *sql.TxOptions
	if u.db.Dialector.Name() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return u.run(ctx, opts, fn)
}

func (u *UnitOfWorkImpl) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	var tx *gorm.DB
	if opts != nil {
		tx = beginTx(u.db.WithContext(ctx), opts)
	} else {
		tx = beginTx(u.db.WithContext(ctx))
	}
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	txCtx := context.WithValue(ctx, txKey, tx)
	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := commitTx(tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDB extracts the Transaction DB from context if present, otherwise returns standard DB
func (u *UnitOfWorkImpl) GetDB(ctx context.Context) *gorm.DB {
	return GetDB(ctx, u.db)
}

// GetDB is used by every repository in this package so that calls made inside
// a unit of work run on its transaction.
func GetDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(*gorm.DB)
	return ok
}
