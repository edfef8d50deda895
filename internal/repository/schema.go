package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		profile_picture TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS blogs (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		author TEXT NOT NULL,
		legacy_image TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS blogs_created_at_idx ON blogs (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS blog_media (
		id UUID PRIMARY KEY,
		blog_id UUID NOT NULL REFERENCES blogs (id) ON DELETE CASCADE,
		position BIGINT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('image', 'video')),
		url TEXT NOT NULL,
		caption TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS blog_media_blog_idx ON blog_media (blog_id, position)`,
	`CREATE TABLE IF NOT EXISTS blog_likes (
		blog_id UUID NOT NULL REFERENCES blogs (id) ON DELETE CASCADE,
		user_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (blog_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS blog_comments (
		id UUID PRIMARY KEY,
		blog_id UUID NOT NULL REFERENCES blogs (id) ON DELETE CASCADE,
		user_id UUID,
		author TEXT NOT NULL,
		comment TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS blog_comments_blog_idx ON blog_comments (blog_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS site_documents (
		kind TEXT PRIMARY KEY,
		document JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables the repositories rely on when they are
// missing. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}
