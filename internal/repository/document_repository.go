package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// DocumentRepository persists singleton JSON documents keyed by kind. A kind
// that has never been written is created from the supplied defaults, and at
// most one document per kind can ever exist.
type DocumentRepository interface {
	Load(ctx context.Context, kind string, defaults []byte) ([]byte, error)
	// Update runs mutate against the current document while holding it
	// exclusively and stores the result. An error from mutate leaves the
	// stored document unchanged.
	Update(ctx context.Context, kind string, defaults []byte, mutate func(current []byte) ([]byte, error)) ([]byte, error)
	// LoadExisting returns the stored document without creating it.
	LoadExisting(ctx context.Context, kind string) ([]byte, bool, error)
}

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func ensureDocument(ctx context.Context, q queryer, kind string, defaults []byte) error {
	query := `
		INSERT INTO site_documents (kind, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind) DO NOTHING
	`
	if _, err := q.ExecContext(ctx, query, kind, string(defaults), time.Now().UTC()); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *documentRepository) Load(ctx context.Context, kind string, defaults []byte) ([]byte, error) {
	doc, found, err := r.LoadExisting(ctx, kind)
	if err != nil || found {
		return doc, err
	}

	if err := ensureDocument(ctx, r.db, kind, defaults); err != nil {
		return nil, err
	}
	doc, _, err = r.LoadExisting(ctx, kind)
	return doc, err
}

func (r *documentRepository) LoadExisting(ctx context.Context, kind string) ([]byte, bool, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM site_documents WHERE kind = $1`, kind).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return doc, true, nil
}

func (r *documentRepository) Update(ctx context.Context, kind string, defaults []byte, mutate func(current []byte) ([]byte, error)) ([]byte, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer tx.Rollback()

	if err := ensureDocument(ctx, tx, kind, defaults); err != nil {
		return nil, err
	}

	var current []byte
	err = tx.QueryRowContext(ctx, `SELECT document FROM site_documents WHERE kind = $1 FOR UPDATE`, kind).Scan(&current)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	next, err := mutate(current)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE site_documents SET document = $1, updated_at = $2 WHERE kind = $3`, string(next), time.Now().UTC(), kind)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return next, nil
}
