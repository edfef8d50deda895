package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/maheshrc27/foodblog-api/internal/models"
)

// BlogFields carries the scalar fields of an update. Empty values keep the
// stored value.
type BlogFields struct {
	Title   string
	Content string
	Author  string
}

// MediaChange describes an edit of a blog's media list. Additions are
// appended first, the list is then cut down to the newest Max items (Max 0
// disables the cut), and the Remove ids are deleted last.
type MediaChange struct {
	Add    []models.Media
	Remove []string
	Max    int
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id string) (*models.Blog, bool, error)
	List(ctx context.Context, filter models.BlogFilter) ([]*models.Blog, error)
	Count(ctx context.Context) (int64, error)
	CountComments(ctx context.Context) (int64, error)
	// Update applies fields and change atomically and returns the media that
	// left the list.
	Update(ctx context.Context, id string, fields BlogFields, change MediaChange) ([]models.Media, bool, error)
	// SetLegacyImage stores url as the legacy image and returns the previous one.
	SetLegacyImage(ctx context.Context, id, url string) (string, bool, error)
	Remove(ctx context.Context, id string) (*models.Blog, bool, error)

	AddLike(ctx context.Context, blogID, userID string) (bool, error)
	RemoveLike(ctx context.Context, blogID, userID string) (bool, error)
	CountLikes(ctx context.Context, blogID string) (int, error)

	AddComment(ctx context.Context, blogID string, comment *models.Comment) error
	GetComment(ctx context.Context, blogID, commentID string) (*models.Comment, bool, error)
	// RemoveComment deletes the comment if it belongs to userID or has no
	// owner, and reports whether a row went away.
	RemoveComment(ctx context.Context, blogID, commentID, userID string) (bool, error)
	ListCommentsByUser(ctx context.Context, userID string) ([]models.UserComment, error)
	RemoveCommentsByUser(ctx context.Context, userID string) error

	ListMediaURLs(ctx context.Context) ([]string, error)
}

type blogRepository struct {
	db *sql.DB
}

func NewBlogRepository(db *sql.DB) BlogRepository {
	return &blogRepository{db: db}
}

const blogColumns = `id, title, content, author, legacy_image, created_at, updated_at`

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	blog.ID = uuid.NewString()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	query := `
		INSERT INTO blogs (id, title, content, author, legacy_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query, blog.ID, blog.Title, blog.Content, blog.Author, blog.LegacyImage, blog.CreatedAt, blog.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := insertMedia(ctx, tx, blog.ID, 0, blog.Media); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// insertMedia appends items after position start, assigning ids in place.
func insertMedia(ctx context.Context, q queryer, blogID string, start int64, items []models.Media) error {
	query := `
		INSERT INTO blog_media (id, blog_id, position, type, url, caption)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range items {
		items[i].ID = uuid.NewString()
		_, err := q.ExecContext(ctx, query, items[i].ID, blogID, start+int64(i)+1, items[i].Type, items[i].URL, items[i].Caption)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*models.Blog, bool, error) {
	if !validID(id) {
		return nil, false, nil
	}

	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`
	var blog models.Blog
	err := r.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Content, &blog.Author, &blog.LegacyImage, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	if err := loadRelations(ctx, r.db, []*models.Blog{&blog}); err != nil {
		return nil, false, err
	}
	return &blog, true, nil
}

func (r *blogRepository) List(ctx context.Context, filter models.BlogFilter) ([]*models.Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE ($1 = '' OR title ~* $1 OR content ~* $1 OR author ~* $1)
			AND ($2 = '' OR author = $2)
			AND ($3::timestamptz IS NULL OR created_at >= $3)
			AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, filter.Search, filter.Author, nullTime(filter.From), nullTime(filter.To))
	if err != nil {
		slog.Info(err.Error())
		return nil, listError(err)
	}
	defer rows.Close()

	var blogs []*models.Blog
	for rows.Next() {
		var blog models.Blog
		if err := rows.Scan(&blog.ID, &blog.Title, &blog.Content, &blog.Author, &blog.LegacyImage, &blog.CreatedAt, &blog.UpdatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		blogs = append(blogs, &blog)
	}
	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, listError(err)
	}

	if err := loadRelations(ctx, r.db, blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// listError maps a regular expression Postgres rejects to ErrInvalidPattern.
func listError(err error) error {
	if isInvalidRegex(err) {
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// loadRelations fills media, likes and comments for blogs with one query each.
func loadRelations(ctx context.Context, q queryer, blogs []*models.Blog) error {
	if len(blogs) == 0 {
		return nil
	}

	ids := make([]string, len(blogs))
	byID := make(map[string]*models.Blog, len(blogs))
	for i, b := range blogs {
		ids[i] = b.ID
		byID[b.ID] = b
	}

	rows, err := q.QueryContext(ctx, `
		SELECT blog_id, id, type, url, caption
		FROM blog_media
		WHERE blog_id = ANY($1::uuid[])
		ORDER BY blog_id, position
	`, pq.Array(ids))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	for rows.Next() {
		var blogID string
		var m models.Media
		if err := rows.Scan(&blogID, &m.ID, &m.Type, &m.URL, &m.Caption); err != nil {
			rows.Close()
			slog.Info(err.Error())
			return err
		}
		byID[blogID].Media = append(byID[blogID].Media, m)
	}
	rows.Close()

	rows, err = q.QueryContext(ctx, `
		SELECT blog_id, user_id
		FROM blog_likes
		WHERE blog_id = ANY($1::uuid[])
		ORDER BY created_at
	`, pq.Array(ids))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	for rows.Next() {
		var blogID, userID string
		if err := rows.Scan(&blogID, &userID); err != nil {
			rows.Close()
			slog.Info(err.Error())
			return err
		}
		byID[blogID].Likes = append(byID[blogID].Likes, userID)
	}
	rows.Close()

	rows, err = q.QueryContext(ctx, `
		SELECT blog_id, id, user_id, author, comment, created_at
		FROM blog_comments
		WHERE blog_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`, pq.Array(ids))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var blogID string
		var userID sql.NullString
		var c models.Comment
		if err := rows.Scan(&blogID, &c.ID, &userID, &c.Author, &c.Comment, &c.CreatedAt); err != nil {
			slog.Info(err.Error())
			return err
		}
		c.UserID = userID.String
		byID[blogID].Comments = append(byID[blogID].Comments, c)
	}
	return rows.Err()
}

func (r *blogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *blogRepository) CountComments(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_comments`).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *blogRepository) Update(ctx context.Context, id string, fields BlogFields, change MediaChange) ([]models.Media, bool, error) {
	if !validID(id) {
		return nil, false, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, false, err
	}
	defer tx.Rollback()

	// The row lock serializes concurrent media edits of the same post.
	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM blogs WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	query := `
		UPDATE blogs
		SET title = COALESCE(NULLIF($1, ''), title),
			content = COALESCE(NULLIF($2, ''), content),
			author = COALESCE(NULLIF($3, ''), author),
			updated_at = $4
		WHERE id = $5
	`
	if _, err = tx.ExecContext(ctx, query, fields.Title, fields.Content, fields.Author, time.Now().UTC(), id); err != nil {
		slog.Info(err.Error())
		return nil, false, err
	}

	if len(change.Add) > 0 {
		var last int64
		err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) FROM blog_media WHERE blog_id = $1`, id).Scan(&last)
		if err != nil {
			slog.Info(err.Error())
			return nil, false, err
		}
		if err := insertMedia(ctx, tx, id, last, change.Add); err != nil {
			return nil, false, err
		}
	}

	var dropped []models.Media
	if change.Max > 0 {
		truncated, err := deleteMediaReturning(ctx, tx, `
			DELETE FROM blog_media
			WHERE id IN (
				SELECT id FROM blog_media
				WHERE blog_id = $1
				ORDER BY position DESC
				OFFSET $2
			)
			RETURNING id, type, url, caption
		`, id, change.Max)
		if err != nil {
			return nil, false, err
		}
		dropped = append(dropped, truncated...)
	}

	var removeIDs []string
	for _, mid := range change.Remove {
		if validID(mid) {
			removeIDs = append(removeIDs, mid)
		}
	}
	if len(removeIDs) > 0 {
		removed, err := deleteMediaReturning(ctx, tx, `
			DELETE FROM blog_media
			WHERE blog_id = $1 AND id = ANY($2::uuid[])
			RETURNING id, type, url, caption
		`, id, pq.Array(removeIDs))
		if err != nil {
			return nil, false, err
		}
		dropped = append(dropped, removed...)
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return nil, false, err
	}
	return dropped, true, nil
}

func deleteMediaReturning(ctx context.Context, q queryer, query string, args ...any) ([]models.Media, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(&m.ID, &m.Type, &m.URL, &m.Caption); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *blogRepository) SetLegacyImage(ctx context.Context, id, url string) (string, bool, error) {
	if !validID(id) {
		return "", false, nil
	}

	// The subquery reads the value as it was before this statement.
	query := `
		UPDATE blogs b
		SET legacy_image = $1, updated_at = $2
		FROM (SELECT id, legacy_image FROM blogs WHERE id = $3 FOR UPDATE) prev
		WHERE b.id = prev.id
		RETURNING prev.legacy_image
	`
	var previous string
	err := r.db.QueryRowContext(ctx, query, url, time.Now().UTC(), id).Scan(&previous)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}
	return previous, true, nil
}

func (r *blogRepository) Remove(ctx context.Context, id string) (*models.Blog, bool, error) {
	if !validID(id) {
		return nil, false, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, false, err
	}
	defer tx.Rollback()

	var blog models.Blog
	err = tx.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = $1 FOR UPDATE`, id).
		Scan(&blog.ID, &blog.Title, &blog.Content, &blog.Author, &blog.LegacyImage, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	if err := loadRelations(ctx, tx, []*models.Blog{&blog}); err != nil {
		return nil, false, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id); err != nil {
		slog.Info(err.Error())
		return nil, false, err
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return nil, false, err
	}
	return &blog, true, nil
}

func (r *blogRepository) AddLike(ctx context.Context, blogID, userID string) (bool, error) {
	if !validID(blogID) || !validID(userID) {
		return false, nil
	}
	query := `
		INSERT INTO blog_likes (blog_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (blog_id, user_id) DO NOTHING
	`
	added, err := affected(r.db.ExecContext(ctx, query, blogID, userID))
	if isForeignKeyViolation(err) {
		return false, ErrMissingParent
	}
	return added, err
}

func (r *blogRepository) RemoveLike(ctx context.Context, blogID, userID string) (bool, error) {
	if !validID(blogID) || !validID(userID) {
		return false, nil
	}
	return affected(r.db.ExecContext(ctx, `DELETE FROM blog_likes WHERE blog_id = $1 AND user_id = $2`, blogID, userID))
}

func affected(result sql.Result, err error) (bool, error) {
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return n > 0, nil
}

func (r *blogRepository) CountLikes(ctx context.Context, blogID string) (int, error) {
	if !validID(blogID) {
		return 0, nil
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_likes WHERE blog_id = $1`, blogID).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *blogRepository) AddComment(ctx context.Context, blogID string, comment *models.Comment) error {
	if !validID(blogID) {
		return ErrMissingParent
	}
	comment.ID = uuid.NewString()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO blog_comments (id, blog_id, user_id, author, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, comment.ID, blogID, nullString(comment.UserID), comment.Author, comment.Comment, comment.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMissingParent
		}
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *blogRepository) GetComment(ctx context.Context, blogID, commentID string) (*models.Comment, bool, error) {
	if !validID(blogID) || !validID(commentID) {
		return nil, false, nil
	}

	query := `SELECT id, user_id, author, comment, created_at FROM blog_comments WHERE id = $1 AND blog_id = $2`
	var c models.Comment
	var userID sql.NullString
	err := r.db.QueryRowContext(ctx, query, commentID, blogID).Scan(&c.ID, &userID, &c.Author, &c.Comment, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	c.UserID = userID.String
	return &c, true, nil
}

func (r *blogRepository) RemoveComment(ctx context.Context, blogID, commentID, userID string) (bool, error) {
	if !validID(blogID) || !validID(commentID) || !validID(userID) {
		return false, nil
	}
	query := `
		DELETE FROM blog_comments
		WHERE id = $1 AND blog_id = $2 AND (user_id IS NULL OR user_id = $3)
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, query, commentID, blogID, userID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return true, nil
}

func (r *blogRepository) ListCommentsByUser(ctx context.Context, userID string) ([]models.UserComment, error) {
	if !validID(userID) {
		return nil, nil
	}

	query := `
		SELECT c.id, c.user_id, c.author, c.comment, c.created_at, b.id, b.title
		FROM blog_comments c
		JOIN blogs b ON b.id = c.blog_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var comments []models.UserComment
	for rows.Next() {
		var c models.UserComment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Author, &c.Comment.Comment, &c.CreatedAt, &c.BlogID, &c.BlogTitle); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *blogRepository) RemoveCommentsByUser(ctx context.Context, userID string) error {
	if !validID(userID) {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blog_comments WHERE user_id = $1`, userID); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *blogRepository) ListMediaURLs(ctx context.Context) ([]string, error) {
	query := `
		SELECT url FROM blog_media
		UNION
		SELECT legacy_image FROM blogs WHERE legacy_image <> ''
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
