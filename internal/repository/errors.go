package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateEmail is returned when a user insert hits the unique email index.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrOrderIDTaken is returned when an order insert hits the unique order_id index.
	ErrOrderIDTaken = errors.New("order id already taken")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
