package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/bmpsync/internal/shared"
)

// FindUserIDByName returns the ID of the user whose name is exactly name.
//
// No match yields [shared.ErrUserNotFound]; other failures are returned wrapped.
func (r *SongRepository) FindUserIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT id FROM "user" WHERE name = $1`, name).Scan(&id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", shared.ErrUserNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query user: %w", err)
	}

	return id, nil
}
