// Package repositories implements persistence for scraped songs.
//
// [SongRepository] reads the user and song tables and inserts new songs, deduplicated by their external (bmpId) identifier.
// Every operation acquires its own connection from the pool and releases it before returning, on success and error alike.
//
// Queries use $n placeholders and quoted identifiers so the same SQL runs on PostgreSQL (pgx) and SQLite (go-sqlite3).
package repositories
