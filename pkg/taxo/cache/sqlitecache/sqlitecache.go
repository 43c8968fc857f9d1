// Package sqlitecache implements the artifact cache on a local SQLite
// file, one row per artifact with an upsert on the full cache key.
package sqlitecache

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/taxolab/taxo/pkg/taxo/cache"
)

type sqliteCache struct {
	db   *sql.DB
	path string

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens (or creates) the cache database at path with WAL mode enabled.
func Open(ctx context.Context, path string) (cache.Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteCache{
		db:      db,
		path:    path,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

func (s *sqliteCache) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS cache_artifacts (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	args_hash TEXT NOT NULL,
	version TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	payload BLOB NOT NULL,
	UNIQUE(kind, content_hash, args_hash, version)
);

CREATE INDEX IF NOT EXISTS idx_cache_lookup
	ON cache_artifacts(kind, content_hash, args_hash, version);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// hashHex renders a 64-bit hash as the fixed-width hex stored in the key
// columns; TEXT sidesteps SQLite's signed INTEGER for high-bit hashes.
func hashHex(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

func (s *sqliteCache) Get(ctx context.Context, key cache.Key) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM cache_artifacts
		 WHERE kind = ? AND content_hash = ? AND args_hash = ? AND version = ?`,
		string(key.Kind), hashHex(key.ContentHash), hashHex(key.ArgsHash), key.Version,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (s *sqliteCache) Put(ctx context.Context, key cache.Key, payload []byte, rowCount int) error {
	s.mu.Lock()
	id := ulid.MustNew(ulid.Now(), s.entropy).String()
	s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_artifacts
		 (id, kind, content_hash, args_hash, version, row_count, created_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(kind, content_hash, args_hash, version)
		 DO UPDATE SET row_count = excluded.row_count,
		               created_at = excluded.created_at,
		               payload = excluded.payload`,
		id, string(key.Kind), hashHex(key.ContentHash), hashHex(key.ArgsHash),
		key.Version, rowCount, time.Now().Unix(), payload)
	return err
}

func (s *sqliteCache) Invalidate(ctx context.Context, kind cache.Kind) (int, error) {
	var (
		res sql.Result
		err error
	)
	if kind == "" {
		res, err = s.db.ExecContext(ctx, "DELETE FROM cache_artifacts")
	} else {
		res, err = s.db.ExecContext(ctx,
			"DELETE FROM cache_artifacts WHERE kind = ?", string(kind))
	}
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *sqliteCache) Info(ctx context.Context) (cache.Info, error) {
	info := cache.Info{Path: s.path, ByKind: map[string]int{}}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return cache.Info{}, err
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return cache.Info{}, err
	}
	info.SizeBytes = pageCount * pageSize

	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, COUNT(*) FROM cache_artifacts GROUP BY kind ORDER BY kind")
	if err != nil {
		return cache.Info{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return cache.Info{}, err
		}
		info.ByKind[kind] = count
		info.Entries += count
	}
	if err := rows.Err(); err != nil {
		return cache.Info{}, err
	}
	return info, nil
}
