// Package postgres provides a PostgreSQL implementation of the
// simpleobjects.Repository interface using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
)

// DBTX is an interface that allows us to use either a database connection or
// a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleobjects.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// handlePostgresError translates pgx errors into domain errors
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("object already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateObjectRecord(ctx context.Context, record *simpleobjects.ObjectRecord) error {
	query := `
		INSERT INTO objects (id, title, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		record.ID, record.Title, record.Description, record.ImageURL,
		record.CreatedAt, record.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create object", err)
	}

	return nil
}

func (r *Repository) GetObjectRecord(ctx context.Context, id uuid.UUID) (*simpleobjects.ObjectRecord, error) {
	query := `
		SELECT id, title, description, image_url, created_at, updated_at
		FROM objects WHERE id = $1`

	var record simpleobjects.ObjectRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.Title, &record.Description, &record.ImageURL,
		&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleobjects.ErrObjectNotFound
		}
		return nil, r.handlePostgresError("get object", err)
	}

	return &record, nil
}

func (r *Repository) ListObjectRecords(ctx context.Context) ([]*simpleobjects.ObjectRecord, error) {
	query := `
		SELECT id, title, description, image_url, created_at, updated_at
		FROM objects ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list objects", err)
	}
	defer rows.Close()

	var records []*simpleobjects.ObjectRecord
	for rows.Next() {
		var record simpleobjects.ObjectRecord
		if err := rows.Scan(
			&record.ID, &record.Title, &record.Description, &record.ImageURL,
			&record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, r.handlePostgresError("list objects", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list objects", err)
	}

	return records, nil
}

func (r *Repository) DeleteObjectRecord(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM objects WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete object", err)
	}

	if tag.RowsAffected() == 0 {
		return simpleobjects.ErrObjectNotFound
	}

	return nil
}
