package service

import (
	"context"
	"strings"
	"testing"

	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLandingService(f *fixture) LandingService {
	return NewLandingService(f.docs, f.uploads, f.cleaner)
}

func TestLandingService_GetDefaults(t *testing.T) {
	f := newFixture(t)
	s := newLandingService(f)

	page, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Delicious Bites", page.Hero.Title)
	assert.Equal(t, "/blogs", page.Hero.CtaLink)
	assert.Empty(t, page.Hero.Images)
	assert.NotNil(t, page.Reels.Items)
}

func TestLandingService_UploadHero(t *testing.T) {
	f := newFixture(t)
	s := newLandingService(f)
	ctx := context.Background()

	urls, page, err := s.UploadHero(ctx, []File{pngFile("a.png"), mp4File("loop.mp4"), pngFile("b.png")})
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.Equal(t, []string{urls[0], urls[2]}, page.Hero.Images)
	assert.Equal(t, urls[1], page.Hero.Video)
	assert.True(t, strings.HasPrefix(page.Hero.Video, "/uploads/landing-page/hero/"))
	assert.Empty(t, f.cleaner.scheduled())

	_, page, err = s.UploadHero(ctx, []File{mp4File("new.mp4")})
	require.NoError(t, err)
	assert.Len(t, page.Hero.Images, 2)
	assert.Equal(t, []string{urls[1]}, f.cleaner.scheduled())
}

func TestLandingService_UploadHeroLimit(t *testing.T) {
	f := newFixture(t)
	s := newLandingService(f)
	ctx := context.Background()

	_, _, err := s.UploadHero(ctx, imageFiles(5))
	require.NoError(t, err)
	before := len(f.stored(t))

	_, _, err = s.UploadHero(ctx, imageFiles(3))
	requireKind(t, err, KindValidation)
	assert.Len(t, f.stored(t), before)

	_, _, err = s.UploadHero(ctx, nil)
	requireKind(t, err, KindValidation)
	assert.Equal(t, "No files uploaded", MessageOf(err))
}

func TestLandingService_Reels(t *testing.T) {
	f := newFixture(t)
	s := newLandingService(f)
	ctx := context.Background()

	_, _, err := s.AddReel(ctx, "", []File{mp4File("r.mp4")})
	requireKind(t, err, KindValidation)
	assert.Equal(t, "Title is required", MessageOf(err))

	_, _, err = s.AddReel(ctx, "Tacos", nil)
	requireKind(t, err, KindValidation)
	assert.Equal(t, "No video file uploaded", MessageOf(err))

	reel, page, err := s.AddReel(ctx, "Tacos", []File{pngFile("thumb.png"), mp4File("tacos.mp4")})
	require.NoError(t, err)
	assert.NotEmpty(t, reel.ID)
	assert.True(t, strings.HasPrefix(reel.VideoURL, "/uploads/landing-page/reels/"))
	assert.True(t, strings.HasPrefix(reel.Thumbnail, "/uploads/landing-page/reels/thumbnails/"))
	require.Len(t, page.Reels.Items, 1)

	page, err = s.DeleteReel(ctx, "no-such-reel")
	require.NoError(t, err)
	assert.Len(t, page.Reels.Items, 1)
	assert.Empty(t, f.cleaner.scheduled())

	page, err = s.DeleteReel(ctx, reel.ID)
	require.NoError(t, err)
	assert.Empty(t, page.Reels.Items)
	assert.ElementsMatch(t, []string{reel.VideoURL, reel.Thumbnail}, f.cleaner.scheduled())
}

func TestLandingService_Update(t *testing.T) {
	f := newFixture(t)
	s := newLandingService(f)
	ctx := context.Background()

	page, err := s.Update(ctx, []byte(`{"hero":{"title":"Fresh food"},"about":{"image":"uploads/landing-page/about.png"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Fresh food", page.Hero.Title)
	assert.Equal(t, "Discover amazing recipes and cooking tips", page.Hero.Subtitle)
	assert.Equal(t, "/uploads/landing-page/about.png", page.About.Image)

	_, err = s.Update(ctx, []byte(`["not", "an", "object"]`))
	requireKind(t, err, KindValidation)

	_, err = s.Update(ctx, []byte(`{"hero":{"images":["1","2","3","4","5","6","7","8"]}}`))
	requireKind(t, err, KindValidation)

	page, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fresh food", page.Hero.Title)
	assert.Empty(t, page.Hero.Images)

	page, err = s.UpdateReelsSection(ctx, transfer.ReelsSectionUpdate{Title: "Quick bites"})
	require.NoError(t, err)
	assert.Equal(t, "Quick bites", page.Reels.Title)
	assert.Equal(t, models.DefaultLandingPage().Reels.Description, page.Reels.Description)
}

func TestLandingService_Upload(t *testing.T) {
	f := newFixture(t)
	s := newLandingService(f)

	urls, err := s.Upload(context.Background(), []File{pngFile("a.png")})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.True(t, strings.HasPrefix(urls[0], "/uploads/landing-page/"))

	page, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, page.Hero.Images)
}
