package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	"github.com/maheshrc27/foodblog-api/internal/repository/memory"
	"github.com/maheshrc27/foodblog-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogService(f *fixture) BlogService {
	return NewBlogService(f.blogs, f.uploads, f.cleaner)
}

func pasta() transfer.BlogInput {
	return transfer.BlogInput{Title: "Pasta", Content: "Boil water.", Author: "chef"}
}

func imageFiles(n int) []File {
	files := make([]File, n)
	for i := range files {
		files[i] = pngFile(fmt.Sprintf("img%d.png", i))
	}
	return files
}

func TestBlogService_Create(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)

	blog, err := s.Create(context.Background(), pasta(), []File{mp4File("intro.mp4"), pngFile("dish.png")})
	require.NoError(t, err)
	require.Len(t, blog.Media, 2)
	assert.Equal(t, models.MediaTypeVideo, blog.Media[0].Type)
	// The legacy image mirrors the first image, not the first item.
	assert.Equal(t, blog.Media[1].URL, blog.Image)
	assert.NotNil(t, blog.Likes)
	assert.NotNil(t, blog.Comments)
	assert.Len(t, f.stored(t), 2)
}

func TestBlogService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)

	_, err := s.Create(context.Background(), transfer.BlogInput{Content: "x", Author: "y"}, []File{pngFile("a.png")})
	requireKind(t, err, KindValidation)

	_, err = s.Create(context.Background(), pasta(), imageFiles(8))
	requireKind(t, err, KindValidation)
	assert.Empty(t, f.stored(t))
}

func TestBlogService_UpdateKeepsNewestSeven(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)
	ctx := context.Background()

	blog, err := s.Create(ctx, pasta(), imageFiles(7))
	require.NoError(t, err)
	oldest := []string{blog.Media[0].URL, blog.Media[1].URL}

	updated, err := s.Update(ctx, blog.ID, transfer.BlogInput{Title: "Better pasta"}, []File{pngFile("new1.png"), mp4File("new2.mp4")}, nil)
	require.NoError(t, err)
	require.Len(t, updated.Media, models.MaxBlogMedia)
	assert.Equal(t, "Better pasta", updated.Title)
	assert.Equal(t, "Boil water.", updated.Content)
	assert.Equal(t, blog.Media[2].URL, updated.Media[0].URL)
	assert.Equal(t, models.MediaTypeVideo, updated.Media[6].Type)
	assert.ElementsMatch(t, oldest, f.cleaner.scheduled())
}

func TestBlogService_UpdateRemovesMedia(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)
	ctx := context.Background()

	blog, err := s.Create(ctx, pasta(), imageFiles(3))
	require.NoError(t, err)

	updated, err := s.Update(ctx, blog.ID, transfer.BlogInput{}, nil, []string{blog.Media[1].ID, "unknown"})
	require.NoError(t, err)
	require.Len(t, updated.Media, 2)
	assert.Equal(t, blog.Media[0].ID, updated.Media[0].ID)
	assert.Equal(t, blog.Media[2].ID, updated.Media[1].ID)
	assert.Equal(t, []string{blog.Media[1].URL}, f.cleaner.scheduled())
}

func TestBlogService_UpdateMissingBlog(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)

	_, err := s.Update(context.Background(), "missing", pasta(), []File{pngFile("a.png")}, nil)
	requireKind(t, err, KindNotFound)
	assert.Equal(t, "Blog not found", MessageOf(err))
	assert.Empty(t, f.stored(t))
}

func TestBlogService_Delete(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)
	ctx := context.Background()

	blog, err := s.Create(ctx, pasta(), imageFiles(2))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, blog.ID))
	assert.ElementsMatch(t, []string{blog.Media[0].URL, blog.Media[1].URL}, f.cleaner.scheduled())

	requireKind(t, s.Delete(ctx, blog.ID), KindNotFound)
	_, err = s.Get(ctx, blog.ID)
	requireKind(t, err, KindNotFound)
}

func TestBlogService_UploadImage(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)
	ctx := context.Background()

	blog, err := s.Create(ctx, pasta(), imageFiles(1))
	require.NoError(t, err)

	first, err := s.UploadImage(ctx, blog.ID, pngFile("cover.png"))
	require.NoError(t, err)
	assert.NotEqual(t, blog.Image, first.Image)
	assert.Empty(t, f.cleaner.scheduled())

	second, err := s.UploadImage(ctx, blog.ID, pngFile("cover2.png"))
	require.NoError(t, err)
	assert.Equal(t, []string{first.Image}, f.cleaner.scheduled())
	assert.NotEqual(t, first.Image, second.Image)

	_, err = s.UploadImage(ctx, "missing", pngFile("x.png"))
	requireKind(t, err, KindNotFound)
}

func TestBlogService_Likes(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)
	ctx := context.Background()

	blog, err := s.Create(ctx, pasta(), nil)
	require.NoError(t, err)

	_, err = s.Like(ctx, nil, blog.ID)
	requireKind(t, err, KindAuthRequired)

	likes, err := s.Like(ctx, caller("u1", "ann"), blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)

	_, err = s.Like(ctx, caller("u1", "ann"), blog.ID)
	requireKind(t, err, KindConflict)
	assert.Equal(t, "You already liked this blog", MessageOf(err))

	_, err = s.Unlike(ctx, caller("u2", "bob"), blog.ID)
	requireKind(t, err, KindConflict)
	assert.Equal(t, "You haven't liked this blog yet", MessageOf(err))

	likes, err = s.Unlike(ctx, caller("u1", "ann"), blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, likes)

	_, err = s.Like(ctx, caller("u1", "ann"), "missing")
	requireKind(t, err, KindNotFound)
}

func TestBlogService_Comments(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)
	ctx := context.Background()

	blog, err := s.Create(ctx, pasta(), nil)
	require.NoError(t, err)

	var req transfer.CommentRequest
	_, err = s.Comment(ctx, caller("u1", "ann"), blog.ID, req)
	requireKind(t, err, KindValidation)
	assert.Equal(t, "Comment text is required", MessageOf(err))

	req.Comment.Text = "Lovely"
	comments, err := s.Comment(ctx, caller("u1", "ann"), blog.ID, req)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "ann", comments[0].Author)
	assert.Equal(t, "u1", comments[0].UserID)

	req.Comment.Author = "A. Nonymous"
	comments, err = s.Comment(ctx, caller("u2", ""), blog.ID, req)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "A. Nonymous", comments[1].Author)

	_, err = s.DeleteComment(ctx, caller("u2", "bob"), blog.ID, comments[0].ID)
	requireKind(t, err, KindForbidden)
	assert.Equal(t, "You can only unlike your own comments", MessageOf(err))

	remaining, err := s.DeleteComment(ctx, caller("u1", "ann"), blog.ID, comments[0].ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, comments[1].ID, remaining[0].ID)

	_, err = s.DeleteComment(ctx, caller("u1", "ann"), blog.ID, comments[0].ID)
	requireKind(t, err, KindNotFound)
	assert.Equal(t, "Comment not found", MessageOf(err))

	count, err := s.CountComments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBlogService_List(t *testing.T) {
	f := newFixture(t)
	s := newBlogService(f)
	ctx := context.Background()

	_, err := s.Create(ctx, pasta(), nil)
	require.NoError(t, err)
	_, err = s.Create(ctx, transfer.BlogInput{Title: "Soup", Content: "Simmer.", Author: "Maria"}, nil)
	require.NoError(t, err)

	blogs, err := s.List(ctx, transfer.BlogQuery{Search: "mar"})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "Soup", blogs[0].Title)

	today := time.Now().UTC().Format("2006-01-02")
	blogs, err = s.List(ctx, transfer.BlogQuery{StartDate: today, EndDate: today})
	require.NoError(t, err)
	assert.Len(t, blogs, 2)

	blogs, err = s.List(ctx, transfer.BlogQuery{EndDate: "2000-01-01"})
	require.NoError(t, err)
	assert.Empty(t, blogs)
	assert.NotNil(t, blogs)

	_, err = s.List(ctx, transfer.BlogQuery{Search: "(unclosed"})
	requireKind(t, err, KindValidation)

	_, err = s.List(ctx, transfer.BlogQuery{StartDate: "yesterday"})
	requireKind(t, err, KindValidation)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

// rejectingPatternBlogs mimics a backend whose regex dialect refuses a
// pattern Go accepts.
type rejectingPatternBlogs struct {
	*memory.BlogStore
}

func (b rejectingPatternBlogs) List(ctx context.Context, filter models.BlogFilter) ([]*models.Blog, error) {
	if filter.Search != "" {
		return nil, fmt.Errorf("%w: pq: invalid regular expression", repository.ErrInvalidPattern)
	}
	return b.BlogStore.List(ctx, filter)
}

func TestBlogService_ListBackendRejectsPattern(t *testing.T) {
	f := newFixture(t)
	s := NewBlogService(rejectingPatternBlogs{f.blogs}, f.uploads, f.cleaner)

	_, err := s.List(context.Background(), transfer.BlogQuery{Search: `(a)b`})
	requireKind(t, err, KindValidation)
	assert.Equal(t, "Invalid search pattern", MessageOf(err))

	blogs, err := s.List(context.Background(), transfer.BlogQuery{})
	require.NoError(t, err)
	assert.Empty(t, blogs)
}
