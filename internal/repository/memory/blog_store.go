package memory

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
)

// BlogStore keeps posts in memory. Every method holds the lock for the whole
// mutation, so concurrent likes, comments and media edits never overwrite
// each other.
type BlogStore struct {
	mu    sync.RWMutex
	blogs map[string]*models.Blog
}

var _ repository.BlogRepository = (*BlogStore)(nil)

func NewBlogStore() *BlogStore {
	return &BlogStore{blogs: make(map[string]*models.Blog)}
}

func cloneBlog(b *models.Blog) *models.Blog {
	c := *b
	c.Media = slices.Clone(b.Media)
	c.Likes = slices.Clone(b.Likes)
	c.Comments = slices.Clone(b.Comments)
	return &c
}

func (s *BlogStore) Create(ctx context.Context, blog *models.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	blog.ID = uuid.NewString()
	blog.CreatedAt = now
	blog.UpdatedAt = now
	for i := range blog.Media {
		blog.Media[i].ID = uuid.NewString()
	}
	s.blogs[blog.ID] = cloneBlog(blog)
	return nil
}

func (s *BlogStore) GetByID(ctx context.Context, id string) (*models.Blog, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blogs[id]
	if !ok {
		return nil, false, nil
	}
	return cloneBlog(b), true, nil
}

func (s *BlogStore) List(ctx context.Context, filter models.BlogFilter) ([]*models.Blog, error) {
	var pattern *regexp.Regexp
	if filter.Search != "" {
		var err error
		if pattern, err = regexp.Compile("(?i)" + filter.Search); err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrInvalidPattern, err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var blogs []*models.Blog
	for _, b := range s.blogs {
		if pattern != nil && !pattern.MatchString(b.Title) && !pattern.MatchString(b.Content) && !pattern.MatchString(b.Author) {
			continue
		}
		if filter.Author != "" && b.Author != filter.Author {
			continue
		}
		if filter.From != nil && b.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && b.CreatedAt.After(*filter.To) {
			continue
		}
		blogs = append(blogs, cloneBlog(b))
	}

	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
	})
	return blogs, nil
}

func (s *BlogStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.blogs)), nil
}

func (s *BlogStore) CountComments(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, b := range s.blogs {
		n += int64(len(b.Comments))
	}
	return n, nil
}

func (s *BlogStore) Update(ctx context.Context, id string, fields repository.BlogFields, change repository.MediaChange) ([]models.Media, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[id]
	if !ok {
		return nil, false, nil
	}

	if fields.Title != "" {
		b.Title = fields.Title
	}
	if fields.Content != "" {
		b.Content = fields.Content
	}
	if fields.Author != "" {
		b.Author = fields.Author
	}
	b.UpdatedAt = time.Now().UTC()

	for i := range change.Add {
		change.Add[i].ID = uuid.NewString()
		b.Media = append(b.Media, change.Add[i])
	}

	var dropped []models.Media
	if change.Max > 0 && len(b.Media) > change.Max {
		cut := len(b.Media) - change.Max
		dropped = append(dropped, b.Media[:cut]...)
		b.Media = slices.Clone(b.Media[cut:])
	}

	for _, mid := range change.Remove {
		if i := slices.IndexFunc(b.Media, func(m models.Media) bool { return m.ID == mid }); i >= 0 {
			dropped = append(dropped, b.Media[i])
			b.Media = slices.Delete(b.Media, i, i+1)
		}
	}
	return dropped, true, nil
}

func (s *BlogStore) SetLegacyImage(ctx context.Context, id, url string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[id]
	if !ok {
		return "", false, nil
	}
	previous := b.LegacyImage
	b.LegacyImage = url
	b.UpdatedAt = time.Now().UTC()
	return previous, true, nil
}

func (s *BlogStore) Remove(ctx context.Context, id string) (*models.Blog, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[id]
	if !ok {
		return nil, false, nil
	}
	delete(s.blogs, id)
	return b, true, nil
}

func (s *BlogStore) AddLike(ctx context.Context, blogID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[blogID]
	if !ok {
		return false, repository.ErrMissingParent
	}
	if slices.Contains(b.Likes, userID) {
		return false, nil
	}
	b.Likes = append(b.Likes, userID)
	return true, nil
}

func (s *BlogStore) RemoveLike(ctx context.Context, blogID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[blogID]
	if !ok {
		return false, nil
	}
	i := slices.Index(b.Likes, userID)
	if i < 0 {
		return false, nil
	}
	b.Likes = slices.Delete(b.Likes, i, i+1)
	return true, nil
}

func (s *BlogStore) CountLikes(ctx context.Context, blogID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.blogs[blogID]; ok {
		return len(b.Likes), nil
	}
	return 0, nil
}

func (s *BlogStore) AddComment(ctx context.Context, blogID string, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[blogID]
	if !ok {
		return repository.ErrMissingParent
	}
	comment.ID = uuid.NewString()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	b.Comments = append(b.Comments, *comment)
	return nil
}

func (s *BlogStore) GetComment(ctx context.Context, blogID, commentID string) (*models.Comment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blogs[blogID]
	if !ok {
		return nil, false, nil
	}
	for _, c := range b.Comments {
		if c.ID == commentID {
			return &c, true, nil
		}
	}
	return nil, false, nil
}

func (s *BlogStore) RemoveComment(ctx context.Context, blogID, commentID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[blogID]
	if !ok {
		return false, nil
	}
	i := slices.IndexFunc(b.Comments, func(c models.Comment) bool {
		return c.ID == commentID && (c.UserID == "" || c.UserID == userID)
	})
	if i < 0 {
		return false, nil
	}
	b.Comments = slices.Delete(b.Comments, i, i+1)
	return true, nil
}

func (s *BlogStore) ListCommentsByUser(ctx context.Context, userID string) ([]models.UserComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []models.UserComment
	for _, b := range s.blogs {
		for _, c := range b.Comments {
			if c.UserID == userID {
				comments = append(comments, models.UserComment{Comment: c, BlogID: b.ID, BlogTitle: b.Title})
			}
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *BlogStore) RemoveCommentsByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.blogs {
		b.Comments = slices.DeleteFunc(b.Comments, func(c models.Comment) bool { return c.UserID == userID })
	}
	return nil
}

func (s *BlogStore) ListMediaURLs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var urls []string
	for _, b := range s.blogs {
		urls = append(urls, b.MediaURLs()...)
	}
	return urls, nil
}
