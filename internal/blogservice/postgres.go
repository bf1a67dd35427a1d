package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// PostgresRepository stores blogs in the blogs table created by common.MigrateUp.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// uniqueViolation reports whether err is a unique constraint error on the named constraint.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(s scanner) (*Blog, error) {
	var b Blog
	err := s.Scan(&b.ID, &b.Title, &b.Content, &b.Author, &b.Date, &b.Featured, &b.OwnerID, &b.OwnerEmail)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT id, title, content, author, date, featured, owner_id, owner_email
		FROM blogs
		ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Blog, error) {
	query := `
		SELECT id, title, content, author, date, featured, owner_id, owner_email
		FROM blogs
		WHERE id = $1`

	return scanBlog(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (id, title, content, author, date, featured, owner_id, owner_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query, b.ID, b.Title, b.Content, b.Author, b.Date, b.Featured, b.OwnerID, b.OwnerEmail)
	if err != nil {
		switch {
		case uniqueViolation(err, "blogs_pkey"):
			return ErrDuplicateID
		default:
			return err
		}
	}

	return nil
}

// lockBlog selects the row for update inside tx.
func lockBlog(ctx context.Context, tx *sql.Tx, id int64) (*Blog, error) {
	query := `
		SELECT id, title, content, author, date, featured, owner_id, owner_email
		FROM blogs
		WHERE id = $1
		FOR UPDATE`

	return scanBlog(tx.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, apply func(*Blog) error) (*Blog, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	b, err := lockBlog(ctx, tx, id)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := apply(b); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	b.ID = id

	query := `
		UPDATE blogs
		SET title = $1, content = $2, author = $3, date = $4, featured = $5
		WHERE id = $6`

	_, err = tx.ExecContext(ctx, query, b.Title, b.Content, b.Author, b.Date, b.Featured, id)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return b, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, check func(*Blog) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	b, err := lockBlog(ctx, tx, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := check(b); err != nil {
		_ = tx.Rollback()
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
