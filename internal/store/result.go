package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Result is the outcome of a data access attempt, either a value or an error
type Result[T any] struct {
	Value T
	Err   error
	// FromFallback is set when Value was produced by the fallback function
	FromFallback bool
}

// Attempt captures the return values of a call, e.g. Attempt(c.GetProduct(ctx, id))
func Attempt[T any](value T, err error) Result[T] {
	return Result[T]{Value: value, Err: err}
}

// OrFallback calls fn when the attempt failed with an error accepted by pred.
// Successful results and errors rejected by pred are returned unchanged.
func (r Result[T]) OrFallback(pred func(error) bool, fn func() (T, error)) Result[T] {
	if r.Err == nil || !pred(r.Err) {
		return r
	}
	v, err := fn()
	return Result[T]{Value: v, Err: err, FromFallback: true}
}

// Unwrap returns the value and error pair
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// IsUnavailable reports whether err means the data source could not be reached,
// as opposed to a query that reached it and failed
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
