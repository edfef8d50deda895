package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	config "github.com/maheshrc27/foodblog-api/configs"
	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("pixels")...)

func pngFile(name string) File {
	return BytesFile(name, "image/png", pngBytes)
}

func mp4File(name string) File {
	return BytesFile(name, "video/mp4", []byte("\x00\x00\x00\x18ftypmp42frames"))
}

type recordingCleaner struct {
	mu   sync.Mutex
	urls []string
}

func (c *recordingCleaner) Schedule(ctx context.Context, urls ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls = append(c.urls, urls...)
	return nil
}

func (c *recordingCleaner) scheduled() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.urls...)
}

// failingStore refuses to save files with the given original name.
type failingStore struct {
	media.Store
	name string
}

func (s *failingStore) Save(ctx context.Context, data []byte, originalFilename, mimeType, folder string) (string, error) {
	if originalFilename == s.name {
		return "", errors.New("disk full")
	}
	return s.Store.Save(ctx, data, originalFilename, mimeType, folder)
}

type fixture struct {
	cfg     *config.Config
	store   *media.DiskStore
	blogs   *memory.BlogStore
	users   *memory.UserStore
	docs    *memory.DocumentStore
	uploads UploadService
	cleaner *recordingCleaner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := media.NewDiskStore(t.TempDir())
	return &fixture{
		cfg: &config.Config{
			SecretKey:   "test-secret",
			AdminEmails: []string{"chef@example.com"},
		},
		store:   store,
		blogs:   memory.NewBlogStore(),
		users:   memory.NewUserStore(),
		docs:    memory.NewDocumentStore(),
		uploads: NewUploadService(store, nil),
		cleaner: &recordingCleaner{},
	}
}

func (f *fixture) stored(t *testing.T) []string {
	t.Helper()
	urls, err := f.store.List(context.Background())
	require.NoError(t, err)
	return urls
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), err.Error())
}

func caller(id, username string) *models.Caller {
	return &models.Caller{UserID: id, Username: username}
}
