package db

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT,
		avatar_url TEXT,
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		excerpt TEXT,
		cover_image_url TEXT,
		author_id UUID NOT NULL REFERENCES profiles(id),
		status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
		view_count INTEGER NOT NULL DEFAULT 0 CHECK (view_count >= 0),
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id UUID NOT NULL REFERENCES profiles(id),
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS admin_whitelist (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS posts_published_idx
		ON posts (published_at DESC) WHERE status = 'published'`,
	`CREATE INDEX IF NOT EXISTS comments_post_idx
		ON comments (post_id, created_at)`,
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
