package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// withConn runs fn on a connection dedicated to one logical operation and always releases it.
func withConn(ctx context.Context, db *sql.DB, fn func(*sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// queryer is satisfied by [sql.DB], [sql.Conn] and [sql.Tx].
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
