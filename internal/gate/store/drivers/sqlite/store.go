package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/gate/internal/gate/store"
	_ "modernc.org/sqlite"
)

const pragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

// Store keeps one writer connection, so writes serialize without
// "database is locked" errors, and a small reader pool.
type Store struct {
	writer *sql.DB
	reader *sql.DB
}

var _ store.Store = (*Store)(nil)

// NewStore opens the database file at path in WAL mode.
func NewStore(path string) (*Store, error) {
	return open(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&%s", path, pragmas))
}

// NewMemoryStore opens a named shared in-memory database. Stores opened
// with the same name see the same data until the last one is closed.
func NewMemoryStore(name string) (*Store, error) {
	return open(fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", name, pragmas))
}

func open(dsn string) (*Store, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.Ping(); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("sqlite: ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("sqlite: open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.Ping(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("sqlite: ping reader: %w", err)
	}

	return &Store{writer: writer, reader: reader}, nil
}

func (s *Store) Close() error {
	return errors.Join(s.reader.Close(), s.writer.Close())
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.writer.PingContext(ctx)
}

func (s *Store) Channels() store.Channels         { return &channelsRepo{s: s} }
func (s *Store) ResumeTokens() store.ResumeTokens { return &resumeTokensRepo{s: s} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
