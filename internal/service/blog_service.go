package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	"github.com/maheshrc27/foodblog-api/internal/transfer"
)

type BlogService interface {
	List(ctx context.Context, q transfer.BlogQuery) ([]*models.Blog, error)
	Get(ctx context.Context, id string) (*models.Blog, error)
	Count(ctx context.Context) (int64, error)
	CountComments(ctx context.Context) (int64, error)
	Create(ctx context.Context, in transfer.BlogInput, files []File) (*models.Blog, error)
	Update(ctx context.Context, id string, in transfer.BlogInput, files []File, deleteMedia []string) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, file File) (*models.Blog, error)

	Like(ctx context.Context, caller *models.Caller, id string) (int, error)
	Unlike(ctx context.Context, caller *models.Caller, id string) (int, error)
	Comment(ctx context.Context, caller *models.Caller, id string, req transfer.CommentRequest) ([]models.Comment, error)
	DeleteComment(ctx context.Context, caller *models.Caller, id, commentID string) ([]models.Comment, error)
}

type blogService struct {
	blogs   repository.BlogRepository
	uploads UploadService
	cleaner MediaCleaner
}

func NewBlogService(blogs repository.BlogRepository, uploads UploadService, cleaner MediaCleaner) BlogService {
	return &blogService{
		blogs:   blogs,
		uploads: uploads,
		cleaner: cleaner,
	}
}

func (s *blogService) List(ctx context.Context, q transfer.BlogQuery) ([]*models.Blog, error) {
	filter := models.BlogFilter{Search: strings.TrimSpace(q.Search)}

	if filter.Search != "" {
		if _, err := regexp.Compile("(?i)" + filter.Search); err != nil {
			return nil, ValidationError("Invalid search pattern")
		}
	}
	if q.StartDate != "" {
		from, err := parseDay(q.StartDate)
		if err != nil {
			return nil, ValidationError("Invalid startDate %q", q.StartDate)
		}
		filter.From = &from
	}
	if q.EndDate != "" {
		day, err := parseDay(q.EndDate)
		if err != nil {
			return nil, ValidationError("Invalid endDate %q", q.EndDate)
		}
		to := endOfDay(day)
		filter.To = &to
	}

	blogs, err := s.blogs.List(ctx, filter)
	if errors.Is(err, repository.ErrInvalidPattern) {
		return nil, ValidationError("Invalid search pattern")
	}
	if err != nil {
		return nil, UpstreamError(err, "Error fetching blogs")
	}
	for _, b := range blogs {
		b.Project()
	}
	if blogs == nil {
		blogs = []*models.Blog{}
	}
	return blogs, nil
}

func (s *blogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	blog, found, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, UpstreamError(err, "Error fetching blog")
	}
	if !found {
		return nil, NotFoundError("Blog not found")
	}
	return blog.Project(), nil
}

func (s *blogService) Count(ctx context.Context) (int64, error) {
	count, err := s.blogs.Count(ctx)
	if err != nil {
		return 0, UpstreamError(err, "Error counting blogs")
	}
	return count, nil
}

func (s *blogService) CountComments(ctx context.Context) (int64, error) {
	count, err := s.blogs.CountComments(ctx)
	if err != nil {
		return 0, UpstreamError(err, "Error counting comments")
	}
	return count, nil
}

func (s *blogService) Create(ctx context.Context, in transfer.BlogInput, files []File) (*models.Blog, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Author = strings.TrimSpace(in.Author)
	if in.Title == "" || in.Content == "" || in.Author == "" {
		return nil, ValidationError("Title, content and author are required")
	}

	// Create rejects an oversized batch outright.
	target := BlogTarget
	target.MaxTotal = models.MaxBlogMedia
	result, err := s.uploads.Handle(ctx, target, files, 0)
	if err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:   in.Title,
		Content: in.Content,
		Author:  in.Author,
		Media:   result.Assets(),
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		scheduleCleanup(ctx, s.cleaner, result.URLs()...)
		return nil, UpstreamError(err, "Error creating blog")
	}

	return blog.Project(), nil
}

func (s *blogService) Update(ctx context.Context, id string, in transfer.BlogInput, files []File, deleteMedia []string) (*models.Blog, error) {
	if _, found, err := s.blogs.GetByID(ctx, id); err != nil {
		return nil, UpstreamError(err, "Error updating blog")
	} else if !found {
		return nil, NotFoundError("Blog not found")
	}

	// Update keeps the newest items instead of rejecting, so no total is
	// enforced up front.
	result, err := s.uploads.Handle(ctx, BlogTarget, files, 0)
	if err != nil {
		return nil, err
	}

	fields := repository.BlogFields{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
		Author:  strings.TrimSpace(in.Author),
	}
	change := repository.MediaChange{
		Add:    result.Assets(),
		Remove: deleteMedia,
		Max:    models.MaxBlogMedia,
	}

	dropped, found, err := s.blogs.Update(ctx, id, fields, change)
	if err != nil || !found {
		scheduleCleanup(ctx, s.cleaner, result.URLs()...)
		if err != nil {
			return nil, UpstreamError(err, "Error updating blog")
		}
		return nil, NotFoundError("Blog not found")
	}

	if len(dropped) > 0 {
		urls := make([]string, 0, len(dropped))
		for _, m := range dropped {
			urls = append(urls, m.URL)
		}
		slog.Info("blog media removed", "blog", id, "count", len(dropped))
		scheduleCleanup(ctx, s.cleaner, urls...)
	}

	return s.Get(ctx, id)
}

func (s *blogService) Delete(ctx context.Context, id string) error {
	blog, found, err := s.blogs.Remove(ctx, id)
	if err != nil {
		return UpstreamError(err, "Error deleting blog")
	}
	if !found {
		return NotFoundError("Blog not found")
	}

	// File removal is a follow-up step; the post is gone either way.
	scheduleCleanup(ctx, s.cleaner, blog.MediaURLs()...)
	return nil
}

func (s *blogService) UploadImage(ctx context.Context, id string, file File) (*models.Blog, error) {
	if _, found, err := s.blogs.GetByID(ctx, id); err != nil {
		return nil, UpstreamError(err, "Error uploading image")
	} else if !found {
		return nil, NotFoundError("Blog not found")
	}

	result, err := s.uploads.Handle(ctx, BlogTarget, []File{file}, 0)
	if err != nil {
		return nil, err
	}
	if len(result.Stored) == 0 {
		return nil, StorageError(result.Failures[0].Err, "Error uploading image")
	}
	url := result.Stored[0].URL

	previous, found, err := s.blogs.SetLegacyImage(ctx, id, url)
	if err != nil || !found {
		scheduleCleanup(ctx, s.cleaner, url)
		if err != nil {
			return nil, UpstreamError(err, "Error uploading image")
		}
		return nil, NotFoundError("Blog not found")
	}
	if previous != "" && media.Canonicalize(previous) != url {
		scheduleCleanup(ctx, s.cleaner, media.Canonicalize(previous))
	}

	return s.Get(ctx, id)
}

func requireCaller(caller *models.Caller) error {
	if caller == nil || caller.UserID == "" {
		return AuthRequiredError("Authentication required")
	}
	return nil
}

func (s *blogService) Like(ctx context.Context, caller *models.Caller, id string) (int, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	if err := s.exists(ctx, id); err != nil {
		return 0, err
	}

	added, err := s.blogs.AddLike(ctx, id, caller.UserID)
	if errors.Is(err, repository.ErrMissingParent) {
		return 0, NotFoundError("Blog not found")
	}
	if err != nil {
		return 0, UpstreamError(err, "Error liking the blog")
	}
	if !added {
		return 0, ConflictError("You already liked this blog")
	}
	return s.likeCount(ctx, id)
}

func (s *blogService) Unlike(ctx context.Context, caller *models.Caller, id string) (int, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	if err := s.exists(ctx, id); err != nil {
		return 0, err
	}

	removed, err := s.blogs.RemoveLike(ctx, id, caller.UserID)
	if err != nil {
		return 0, UpstreamError(err, "Error unliking the blog")
	}
	if !removed {
		return 0, ConflictError("You haven't liked this blog yet")
	}
	return s.likeCount(ctx, id)
}

func (s *blogService) likeCount(ctx context.Context, id string) (int, error) {
	count, err := s.blogs.CountLikes(ctx, id)
	if err != nil {
		return 0, UpstreamError(err, "Error counting likes")
	}
	return count, nil
}

func (s *blogService) exists(ctx context.Context, id string) error {
	_, found, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return UpstreamError(err, "Error fetching blog")
	}
	if !found {
		return NotFoundError("Blog not found")
	}
	return nil
}

func (s *blogService) Comment(ctx context.Context, caller *models.Caller, id string, req transfer.CommentRequest) ([]models.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Comment.Text)
	if text == "" {
		return nil, ValidationError("Comment text is required")
	}

	author := strings.TrimSpace(req.Comment.Author)
	if author == "" {
		author = caller.Username
	}
	if author == "" {
		author = "Anonymous"
	}

	comment := &models.Comment{UserID: caller.UserID, Author: author, Comment: text}
	err := s.blogs.AddComment(ctx, id, comment)
	if errors.Is(err, repository.ErrMissingParent) {
		return nil, NotFoundError("Blog not found")
	}
	if err != nil {
		return nil, UpstreamError(err, "Error posting the comment")
	}

	blog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return blog.Comments, nil
}

func (s *blogService) DeleteComment(ctx context.Context, caller *models.Caller, id, commentID string) ([]models.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	comment, found, err := s.blogs.GetComment(ctx, id, commentID)
	if err != nil {
		return nil, UpstreamError(err, "Error removing the comment")
	}
	if !found {
		return nil, NotFoundError("Comment not found")
	}
	// Comments without an owner can be removed by any signed-in caller.
	if comment.UserID != "" && comment.UserID != caller.UserID {
		return nil, ForbiddenError("You can only unlike your own comments")
	}

	removed, err := s.blogs.RemoveComment(ctx, id, commentID, caller.UserID)
	if err != nil {
		return nil, UpstreamError(err, "Error removing the comment")
	}
	if !removed {
		return nil, NotFoundError("Comment not found")
	}

	blog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return blog.Comments, nil
}
