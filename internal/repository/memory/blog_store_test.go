package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlog(t *testing.T, store *BlogStore, mediaCount int) *models.Blog {
	blog := &models.Blog{Title: "Pasta", Content: "Yum", Author: "chef"}
	for i := 0; i < mediaCount; i++ {
		blog.Media = append(blog.Media, models.Media{Type: models.MediaTypeImage, URL: fmt.Sprintf("/uploads/blogs/%d.jpg", i)})
	}
	require.NoError(t, store.Create(context.Background(), blog))
	return blog
}

func TestBlogStore_CreateAndGet(t *testing.T) {
	store := NewBlogStore()
	blog := newTestBlog(t, store, 2)

	got, found, err := store.GetByID(context.Background(), blog.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Pasta", got.Title)
	require.Len(t, got.Media, 2)
	assert.NotEmpty(t, got.Media[0].ID)

	_, found, err = store.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBlogStore_UpdateKeepsNewestMedia(t *testing.T) {
	store := NewBlogStore()
	blog := newTestBlog(t, store, 7)
	ctx := context.Background()

	dropped, found, err := store.Update(ctx, blog.ID, repository.BlogFields{}, repository.MediaChange{
		Add: []models.Media{{Type: models.MediaTypeVideo, URL: "/uploads/blogs/new.mp4"}},
		Max: models.MaxBlogMedia,
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, dropped, 1)
	assert.Equal(t, "/uploads/blogs/0.jpg", dropped[0].URL)

	got, _, _ := store.GetByID(ctx, blog.ID)
	require.Len(t, got.Media, 7)
	assert.Equal(t, "/uploads/blogs/1.jpg", got.Media[0].URL)
	assert.Equal(t, "/uploads/blogs/new.mp4", got.Media[6].URL)
	assert.Equal(t, "Pasta", got.Title)
}

func TestBlogStore_UpdateRemovesAfterTruncation(t *testing.T) {
	store := NewBlogStore()
	blog := newTestBlog(t, store, 3)
	ctx := context.Background()

	dropped, _, err := store.Update(ctx, blog.ID, repository.BlogFields{Title: "Risotto"}, repository.MediaChange{
		Remove: []string{blog.Media[1].ID, "unknown"},
		Max:    models.MaxBlogMedia,
	})
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, blog.Media[1].URL, dropped[0].URL)

	got, _, _ := store.GetByID(ctx, blog.ID)
	assert.Equal(t, "Risotto", got.Title)
	require.Len(t, got.Media, 2)
	assert.Equal(t, blog.Media[0].ID, got.Media[0].ID)
	assert.Equal(t, blog.Media[2].ID, got.Media[1].ID)
}

func TestBlogStore_Likes(t *testing.T) {
	store := NewBlogStore()
	blog := newTestBlog(t, store, 0)
	ctx := context.Background()

	added, err := store.AddLike(ctx, blog.ID, "u1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.AddLike(ctx, blog.ID, "u1")
	require.NoError(t, err)
	assert.False(t, added)

	count, _ := store.CountLikes(ctx, blog.ID)
	assert.Equal(t, 1, count)

	removed, err := store.RemoveLike(ctx, blog.ID, "u1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.RemoveLike(ctx, blog.ID, "u1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = store.AddLike(ctx, "missing", "u1")
	assert.ErrorIs(t, err, repository.ErrMissingParent)
}

func TestBlogStore_ConcurrentLikesAllSurvive(t *testing.T) {
	store := NewBlogStore()
	blog := newTestBlog(t, store, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.AddLike(ctx, blog.ID, fmt.Sprintf("user-%d", i))
			_ = store.AddComment(ctx, blog.ID, &models.Comment{Author: "a", Comment: "hi"})
		}(i)
	}
	wg.Wait()

	got, _, _ := store.GetByID(ctx, blog.ID)
	assert.Len(t, got.Likes, 50)
	assert.Len(t, got.Comments, 50)
}

func TestBlogStore_RemoveCommentOwnership(t *testing.T) {
	store := NewBlogStore()
	blog := newTestBlog(t, store, 0)
	ctx := context.Background()

	owned := &models.Comment{UserID: "owner", Author: "o", Comment: "mine"}
	anonymous := &models.Comment{Author: "Anonymous", Comment: "nobody's"}
	require.NoError(t, store.AddComment(ctx, blog.ID, owned))
	require.NoError(t, store.AddComment(ctx, blog.ID, anonymous))

	removed, err := store.RemoveComment(ctx, blog.ID, owned.ID, "intruder")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = store.RemoveComment(ctx, blog.ID, owned.ID, "owner")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.RemoveComment(ctx, blog.ID, anonymous.ID, "anyone")
	require.NoError(t, err)
	assert.True(t, removed)

	count, _ := store.CountComments(ctx)
	assert.Zero(t, count)
}

func TestBlogStore_ListFiltersAndOrders(t *testing.T) {
	store := NewBlogStore()
	ctx := context.Background()

	for _, title := range []string{"Pasta night", "Salad", "PASTA al forno"} {
		require.NoError(t, store.Create(ctx, &models.Blog{Title: title, Content: "c", Author: "chef"}))
	}

	blogs, err := store.List(ctx, models.BlogFilter{Search: "pasta"})
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.False(t, blogs[0].CreatedAt.Before(blogs[1].CreatedAt))

	_, err = store.List(ctx, models.BlogFilter{Search: "("})
	assert.Error(t, err)
}

func TestBlogStore_ListInvalidPattern(t *testing.T) {
	store := NewBlogStore()
	_, err := store.List(context.Background(), models.BlogFilter{Search: "(unclosed"})
	assert.ErrorIs(t, err, repository.ErrInvalidPattern)
}
