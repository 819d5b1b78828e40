package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres создает хранилище ключ-значение поверх PostgreSQL.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// Migrate создает таблицу хранилища, если ее еще нет.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// Get возвращает значение по ключу.
func (s *Postgres) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value json.RawMessage

	err := s.db.QueryRow(ctx,
		`SELECT value FROM kv_store WHERE key = $1`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return value, nil
}

// Set записывает значение по ключу, перезаписывая существующее.
func (s *Postgres) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO kv_store (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value,
		     updated_at = NOW()`,
		key, value,
	)
	return err
}

// Delete удаляет ключ. Отсутствие ключа не считается ошибкой.
func (s *Postgres) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM kv_store WHERE key = $1`,
		key,
	)
	return err
}
