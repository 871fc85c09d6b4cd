package repository

import "context"

// Transactor runs fn inside a database transaction carried by ctx.
// Repository calls made with the ctx passed to fn join that transaction;
// a nested WithinTransaction reuses the outer one. Returning an error rolls back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
