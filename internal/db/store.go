package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const postListColumns = `
	p.id::text,
	p.slug,
	p.title,
	COALESCE(p.excerpt, ''),
	COALESCE(p.cover_image_url, ''),
	COALESCE(pr.display_name, ''),
	COALESCE(pr.avatar_url, ''),
	p.status,
	p.view_count,
	p.published_at,
	p.created_at
`

// ListPosts returns a page of posts with the author projection. The public
// listing covers published posts ordered by publish time descending; the
// admin listing includes drafts and orders by creation time instead.
func (s *Store) ListPosts(ctx context.Context, includeDrafts bool, limit, offset int) ([]models.PostListItem, int, error) {
	if s.pool == nil {
		return nil, 0, errors.New("db not initialized")
	}

	var listQuery string
	if includeDrafts {
		listQuery = `
			SELECT ` + postListColumns + `
			FROM posts p
			JOIN profiles pr ON pr.id = p.author_id
			ORDER BY p.created_at DESC
			LIMIT $1 OFFSET $2
		`
	} else {
		listQuery = `
			SELECT ` + postListColumns + `
			FROM posts p
			JOIN profiles pr ON pr.id = p.author_id
			WHERE p.status = 'published'
			ORDER BY p.published_at DESC
			LIMIT $1 OFFSET $2
		`
	}
	rows, err := s.pool.Query(ctx, listQuery, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPostList(rows, limit)
	if err != nil {
		return nil, 0, err
	}

	countQuery := "SELECT COUNT(*) FROM posts WHERE status = 'published'"
	if includeDrafts {
		countQuery = "SELECT COUNT(*) FROM posts"
	}
	var total int
	if err := s.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

// SearchPosts matches published posts whose title or excerpt contains the
// query, case-insensitively.
func (s *Store) SearchPosts(ctx context.Context, query string, limit, offset int) ([]models.PostListItem, int, error) {
	if s.pool == nil {
		return nil, 0, errors.New("db not initialized")
	}

	const searchQuery = `
		SELECT ` + postListColumns + `
		FROM posts p
		JOIN profiles pr ON pr.id = p.author_id
		WHERE p.status = 'published'
			AND (p.title ILIKE '%' || $1 || '%' OR p.excerpt ILIKE '%' || $1 || '%')
		ORDER BY p.published_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.pool.Query(ctx, searchQuery, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPostList(rows, limit)
	if err != nil {
		return nil, 0, err
	}

	const countQuery = `
		SELECT COUNT(*)
		FROM posts
		WHERE status = 'published'
			AND (title ILIKE '%' || $1 || '%' OR excerpt ILIKE '%' || $1 || '%')
	`
	var total int
	if err := s.pool.QueryRow(ctx, countQuery, query).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search posts: %w", err)
	}
	return posts, total, nil
}

func scanPostList(rows pgx.Rows, limit int) ([]models.PostListItem, error) {
	posts := make([]models.PostListItem, 0, limit)
	for rows.Next() {
		var post models.PostListItem
		if err := rows.Scan(
			&post.ID,
			&post.Slug,
			&post.Title,
			&post.Excerpt,
			&post.CoverImageURL,
			&post.Author.DisplayName,
			&post.Author.AvatarURL,
			&post.Status,
			&post.ViewCount,
			&post.PublishedAt,
			&post.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

const postColumns = `
	p.id::text,
	p.slug,
	p.title,
	p.content,
	COALESCE(p.excerpt, ''),
	COALESCE(p.cover_image_url, ''),
	p.author_id::text,
	COALESCE(pr.display_name, ''),
	COALESCE(pr.avatar_url, ''),
	p.status,
	p.view_count,
	p.published_at,
	p.created_at,
	p.updated_at
`

func (s *Store) getPost(ctx context.Context, where string, arg any) (*models.Post, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN profiles pr ON pr.id = p.author_id
		WHERE ` + where

	var post models.Post
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.CoverImageURL,
		&post.AuthorID,
		&post.Author.DisplayName,
		&post.Author.AvatarURL,
		&post.Status,
		&post.ViewCount,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// GetPostByID fetches any post regardless of status (admin editing).
func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getPost(ctx, "p.id = $1", id)
}

// GetPostBySlug fetches a published post only (public detail page).
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getPost(ctx, "p.slug = $1 AND p.status = 'published'", slug)
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		INSERT INTO posts (slug, title, content, excerpt, cover_image_url, author_id, status, published_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, COALESCE(NULLIF($7, ''), 'draft'), $8)
		RETURNING id::text
	`
	var id string
	err := s.pool.QueryRow(
		ctx,
		query,
		post.Slug,
		post.Title,
		post.Content,
		post.Excerpt,
		post.CoverImageURL,
		post.AuthorID,
		post.Status,
		post.PublishedAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", mapPgError(err))
	}
	return s.GetPostByID(ctx, id)
}

// UpdatePost rewrites the editable fields of a post. Status and published_at
// are not touched here; SetPostStatus owns the lifecycle transitions.
func (s *Store) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		UPDATE posts
		SET slug = $2,
			title = $3,
			content = $4,
			excerpt = NULLIF($5, ''),
			cover_image_url = NULLIF($6, ''),
			updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		post.ID, post.Slug, post.Title, post.Content, post.Excerpt, post.CoverImageURL)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetPostByID(ctx, post.ID)
}

// SetPostStatus moves a post between draft and published. publishedAt is
// non-nil only on the first transition into published; later cycles pass nil
// and the stored timestamp is kept as is.
func (s *Store) SetPostStatus(ctx context.Context, id, status string, publishedAt *time.Time) (*models.Post, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		UPDATE posts
		SET status = $2,
			published_at = COALESCE($3, published_at),
			updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, id, status, publishedAt)
	if err != nil {
		return nil, fmt.Errorf("set post status: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return s.GetPostByID(ctx, id)
}

// DeletePost removes a post; its comments go with it via ON DELETE CASCADE.
func (s *Store) DeletePost(ctx context.Context, id string) (bool, error) {
	if s.pool == nil {
		return false, errors.New("db not initialized")
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", mapPgError(err))
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementViewCount bumps a post's view counter by one in a single
// statement, so concurrent readers never lose increments.
func (s *Store) IncrementViewCount(ctx context.Context, id string) error {
	if s.pool == nil {
		return errors.New("db not initialized")
	}
	_, err := s.pool.Exec(ctx, "UPDATE posts SET view_count = view_count + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// ListComments returns every comment on a post with the author projection,
// oldest first.
func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		SELECT
			c.id::text,
			c.post_id::text,
			c.author_id::text,
			c.content,
			COALESCE(pr.display_name, ''),
			COALESCE(pr.avatar_url, ''),
			c.created_at,
			c.updated_at
		FROM comments c
		JOIN profiles pr ON pr.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := s.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.AuthorID,
			&c.Content,
			&c.Author.DisplayName,
			&c.Author.AvatarURL,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return comments, nil
}

func (s *Store) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		INSERT INTO comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id::text, post_id::text, author_id::text, content, created_at, updated_at
	`
	var created models.Comment
	err := s.pool.QueryRow(ctx, query, comment.PostID, comment.AuthorID, comment.Content).Scan(
		&created.ID,
		&created.PostID,
		&created.AuthorID,
		&created.Content,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", mapPgError(err))
	}
	return &created, nil
}

// UpsertProfile creates the profile on first login and refreshes the fields
// Google reports on every later login. Role is never changed here.
func (s *Store) UpsertProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}

	const query = `
		INSERT INTO profiles (id, email, display_name, avatar_url)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = now()
		RETURNING id::text, email, COALESCE(display_name, ''), COALESCE(avatar_url, ''), role, created_at, updated_at
	`
	var p models.Profile
	err := s.pool.QueryRow(ctx, query, profile.ID, profile.Email, profile.DisplayName, profile.AvatarURL).Scan(
		&p.ID,
		&p.Email,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", mapPgError(err))
	}
	return &p, nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if s.pool == nil {
		return nil, errors.New("db not initialized")
	}
	const query = `
		SELECT id::text, email, COALESCE(display_name, ''), COALESCE(avatar_url, ''), role, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	var p models.Profile
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Email,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// IsWhitelisted reports whether the email may use the admin console.
func (s *Store) IsWhitelisted(ctx context.Context, email string) (bool, error) {
	if s.pool == nil {
		return false, errors.New("db not initialized")
	}
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM admin_whitelist WHERE lower(email) = lower($1))", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check whitelist: %w", err)
	}
	return exists, nil
}
