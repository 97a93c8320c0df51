package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/bmpsync/internal/models"
	"github.com/desertthunder/bmpsync/internal/shared"
)

// SongRepository reads users and inserts songs.
type SongRepository struct {
	db          *sql.DB
	idGenerator func() string
}

// NewSongRepository creates a new [SongRepository] with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db, idGenerator: shared.GenerateID}
}

// ExistingExternalIDs returns every bmpId already stored.
func (r *SongRepository) ExistingExternalIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids map[string]struct{}
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		var err error
		ids, err = existingExternalIDs(ctx, conn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func existingExternalIDs(ctx context.Context, q queryer) (map[string]struct{}, error) {
	rows, err := q.QueryContext(ctx, `SELECT "bmpId" FROM song`)
	if err != nil {
		return nil, fmt.Errorf("failed to query song IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id sql.NullString
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan song ID: %w", err)
		}
		if id.Valid {
			ids[id.String] = struct{}{}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// FilterNew returns the songs whose external ID is neither in existing nor repeated earlier in songs.
// Order is preserved.
func FilterNew(songs []models.Song, existing map[string]struct{}) []models.Song {
	seen := make(map[string]struct{}, len(existing)+len(songs))
	for id := range existing {
		seen[id] = struct{}{}
	}

	var fresh []models.Song
	for _, song := range songs {
		if _, ok := seen[song.ExternalID]; ok {
			continue
		}
		seen[song.ExternalID] = struct{}{}
		fresh = append(fresh, song)
	}
	return fresh
}

// InsertNew stores the songs not already present under userID and returns the number of rows inserted.
//
// The existing-ID scan and all inserts share one connection; inserts run in a single transaction
// committed once at the end, so any failure leaves the table untouched.
func (r *SongRepository) InsertNew(ctx context.Context, songs []models.Song, userID string) (int64, error) {
	var inserted int64
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		existing, err := existingExternalIDs(ctx, conn)
		if err != nil {
			return err
		}

		fresh := FilterNew(songs, existing)
		if len(fresh) == 0 {
			return nil
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO song (id, "bmpId", title, download, source, comment, tags, "bmpAuthor", author)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		var count int64
		for _, song := range fresh {
			row := models.NewPersistedSong(song, r.idGenerator(), userID)
			result, err := stmt.ExecContext(ctx,
				row.ID, row.ExternalID, row.Title, row.DownloadURL, row.Source, row.Comment, row.Tags, row.Author, row.UserID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert song %s: %w", song.ExternalID, err)
			}

			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get affected rows: %w", err)
			}
			count += n
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit songs: %w", err)
		}

		inserted = count
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}
