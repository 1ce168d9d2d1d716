// Package repo stores accounts and saved cantilever designs in Postgres.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"Cantilever/internal/calc/cantilever"
)

var ErrNotFound = errors.New("not found")

type Design struct {
	ID        int               `json:"id"`
	UserID    int               `json:"user_id"`
	Name      string            `json:"name"`
	Input     cantilever.Input  `json:"input"`
	Result    cantilever.Result `json:"result"`
	CreatedAt time.Time         `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
	SaveDesign(ctx context.Context, d Design) (int, error)
	ListDesigns(ctx context.Context, userID int) ([]Design, error)
	GetDesign(ctx context.Context, userID, id int) (Design, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS designs (
	id SERIAL PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	input JSONB NOT NULL,
	result JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS designs_user_id_idx ON designs (user_id, created_at DESC);
`

// Open connects to dsn, requiring TLS unless the DSN says otherwise, and
// creates the tables if they are missing.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", withSSLMode(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func withSSLMode(dsn string) string {
	if dsn == "" {
		dsn = "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&sslmode=require"
		}
		return dsn + "?sslmode=require"
	}
	return dsn + " sslmode=require"
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

// GetByLogin returns the user id and password hash, or ErrNotFound.
func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveDesign(ctx context.Context, d Design) (int, error) {
	in, err := json.Marshal(d.Input)
	if err != nil {
		return 0, err
	}
	res, err := json.Marshal(d.Result)
	if err != nil {
		return 0, err
	}
	var id int
	query := "INSERT INTO designs (user_id, name, input, result) VALUES ($1, $2, $3, $4) RETURNING id"
	err = r.db.QueryRowContext(ctx, query, d.UserID, d.Name, in, res).Scan(&id)
	return id, err
}

func (r *PostgresRepository) ListDesigns(ctx context.Context, userID int) ([]Design, error) {
	query := "SELECT id, user_id, name, input, result, created_at FROM designs WHERE user_id=$1 ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Design
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDesign returns ErrNotFound when the design does not exist or belongs to
// another user.
func (r *PostgresRepository) GetDesign(ctx context.Context, userID, id int) (Design, error) {
	query := "SELECT id, user_id, name, input, result, created_at FROM designs WHERE id=$1 AND user_id=$2"
	d, err := scanDesign(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Design{}, ErrNotFound
	}
	return d, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDesign(s scanner) (Design, error) {
	var d Design
	var in, res []byte
	if err := s.Scan(&d.ID, &d.UserID, &d.Name, &in, &res, &d.CreatedAt); err != nil {
		return Design{}, err
	}
	if err := json.Unmarshal(in, &d.Input); err != nil {
		return Design{}, fmt.Errorf("design %d input: %w", d.ID, err)
	}
	if err := json.Unmarshal(res, &d.Result); err != nil {
		return Design{}, fmt.Errorf("design %d result: %w", d.ID, err)
	}
	return d, nil
}
