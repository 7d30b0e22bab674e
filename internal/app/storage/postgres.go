package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const recordName = "links"

type postgres struct {
	db *sql.DB
}

// NewPostgresBackend keeps the record in one row of link_records, creating
// the table if needed.
func NewPostgresBackend(ctx context.Context, dsn string) (Backend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(60 * time.Minute)
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(5)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = db.ExecContext(
		ctx,
		`create table if not exists link_records (
			name text primary key,
			body text not null,
			updated_at timestamptz not null default now()
		)`,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create link_records: %w", err)
	}

	return &postgres{db: db}, nil
}

func (s *postgres) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(
		ctx,
		"select body from link_records where name = $1",
		recordName,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("select link record: %w", err)
	}

	return []byte(body), nil
}

func (s *postgres) Replace(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		`insert into link_records (name, body, updated_at) values ($1, $2, now())
		on conflict (name) do update set body = excluded.body, updated_at = excluded.updated_at`,
		recordName,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert link record: %w", err)
	}

	return nil
}

func (s *postgres) Close() error {
	return s.db.Close()
}
