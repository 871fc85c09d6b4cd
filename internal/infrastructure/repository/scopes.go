package repository

import (
	"context"
	"time"

	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ctxKey string

// txKey is the context key for the active *gorm.DB transaction
const txKey ctxKey = "gorm_tx"

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor backed by gorm transactions
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// dbFrom returns the transaction carried by ctx, or db bound to ctx when there is none
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// ForUpdate returns a GORM scope that takes an exclusive row lock (SELECT ... FOR UPDATE).
// Drivers without row locks ignore it.
func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Between returns a GORM scope for a half-open time range on column
func Between(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", from.UTC())
		}
		if to != nil {
			db = db.Where(column+" < ?", to.UTC())
		}
		return db
	}
}

// Search returns a case-insensitive LIKE scope over the given columns
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + term + "%"
		cond := db.Session(&gorm.Session{NewDB: true})
		for i, col := range columns {
			if i == 0 {
				cond = cond.Where("LOWER("+col+") LIKE LOWER(?)", like)
				continue
			}
			cond = cond.Or("LOWER("+col+") LIKE LOWER(?)", like)
		}
		return db.Where(cond)
	}
}
