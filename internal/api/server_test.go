package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/foodblog-api/configs"
	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/queue"
	"github.com/maheshrc27/foodblog-api/internal/repository/memory"
	"github.com/maheshrc27/foodblog-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("pixels")...)

type testServer struct {
	app     *fiber.App
	cleaner *queue.InlineCleaner
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		FrontendURL:  "http://localhost:5173",
		MediaBackend: config.MediaBackendDisk,
		UploadDir:    t.TempDir(),
		SecretKey:    "test-secret",
		AdminEmails:  []string{"chef@example.com"},
	}

	users := memory.NewUserStore()
	blogs := memory.NewBlogStore()
	docs := memory.NewDocumentStore()

	registry := prometheus.NewRegistry()
	observer, err := media.NewPrometheusObserver("media_store", registry)
	require.NoError(t, err)
	store := media.Observe(media.NewDiskStore(cfg.UploadDir), observer)
	cleaner := queue.NewInlineCleaner(queue.NewQueue(store))
	t.Cleanup(cleaner.Wait)

	uploads := service.NewUploadService(store, observer)
	auth := service.NewAuthService(cfg, users)
	app := NewApp(cfg, Services{
		Auth:       auth,
		Users:      service.NewUserService(cfg, users, blogs, auth, uploads, cleaner),
		Blogs:      service.NewBlogService(blogs, uploads, cleaner),
		Landing:    service.NewLandingService(docs, uploads, cleaner),
		Site:       service.NewSiteSettingsService(docs, uploads, cleaner),
		Navigation: service.NewNavigationService(docs),
	}, registry)

	return &testServer{app: app, cleaner: cleaner}
}

func (s *testServer) do(t *testing.T, req *http.Request, token string) (*http.Response, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, body
}

func jsonRequest(method, target string, v any) *http.Request {
	var body io.Reader
	if v != nil {
		data, _ := json.Marshal(v)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

type part struct {
	field    string
	filename string
	mimeType string
	data     []byte
}

func multipartRequest(t *testing.T, method, target string, values map[string]string, parts ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		h.Set("Content-Type", p.mimeType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func (s *testServer) register(t *testing.T, username, email string) string {
	t.Helper()
	resp, body := s.do(t, jsonRequest(http.MethodPost, "/api/users/register", map[string]string{
		"username": username, "email": email, "password": "secret123",
	}), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestBlogLifecycle(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.register(t, "chef", "chef@example.com")
	readerToken := s.register(t, "ann", "ann@example.com")

	fields := map[string]string{
		"title":            "Pasta",
		"content":          "Boil water, add pasta.",
		"author":           "chef",
		"caption_dish.png": "The finished dish",
	}
	files := []part{
		{field: "media", filename: "dish.png", mimeType: "image/png", data: pngBytes},
		{field: "media", filename: "steps.mp4", mimeType: "video/mp4", data: []byte("\x00\x00\x00\x18ftypmp42frames")},
	}

	resp, _ := s.do(t, multipartRequest(t, http.MethodPost, "/api/blogs", fields, files...), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, multipartRequest(t, http.MethodPost, "/api/blogs", fields, files...), readerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.do(t, multipartRequest(t, http.MethodPost, "/api/blogs", fields, files...), adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var blog models.Blog
	require.NoError(t, json.Unmarshal(body, &blog))
	require.Len(t, blog.Media, 2)
	assert.Equal(t, "The finished dish", blog.Media[0].Caption)
	assert.Equal(t, models.MediaTypeVideo, blog.Media[1].Type)
	assert.Equal(t, blog.Media[0].URL, blog.Image)

	// Stored files are served back byte for byte.
	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, blog.Media[0].URL, nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pngBytes, body)

	resp, body = s.do(t, jsonRequest(http.MethodPost, "/api/blogs/"+blog.ID+"/like", nil), readerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"message":"Blog liked successfully","likes":1}`, string(body))

	resp, body = s.do(t, jsonRequest(http.MethodPost, "/api/blogs/"+blog.ID+"/like", nil), readerToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"You already liked this blog"}`, string(body))

	resp, body = s.do(t, jsonRequest(http.MethodPost, "/api/blogs/"+blog.ID+"/comment", map[string]any{
		"comment": map[string]string{"text": "Delicious"},
	}), readerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var commented struct {
		Comments []models.Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(body, &commented))
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "ann", commented.Comments[0].Author)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/blogs?search=PASTA", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []models.Blog
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Comments, 1)

	resp, body = s.do(t, jsonRequest(http.MethodDelete, "/api/blogs/"+blog.ID, nil), adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Blog deleted successfully"}`, string(body))

	s.cleaner.Wait()
	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, blog.Media[0].URL, nil), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/blogs/"+blog.ID, nil), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Blog not found"}`, string(body))
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func TestFormFieldsSurviveLaterRequests(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.register(t, "chef", "chef@example.com")

	resp, body := s.do(t, formRequest(http.MethodPost, "/api/blogs", url.Values{
		"title": {"Pasta"}, "content": {"Yum"}, "author": {"chef"},
	}), adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var first models.Blog
	require.NoError(t, json.Unmarshal(body, &first))

	filler := strings.Repeat("X", 64)
	for i := 0; i < 20; i++ {
		resp, body = s.do(t, formRequest(http.MethodPost, "/api/blogs", url.Values{
			"title": {filler}, "content": {filler}, "author": {filler},
		}), adminToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/blogs/"+first.ID, nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var stored models.Blog
	require.NoError(t, json.Unmarshal(body, &stored))
	assert.Equal(t, "Pasta", stored.Title)
	assert.Equal(t, "Yum", stored.Content)
	assert.Equal(t, "chef", stored.Author)
}

func TestLandingAndSettingsRoutes(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.register(t, "chef", "chef@example.com")

	resp, body := s.do(t, multipartRequest(t, http.MethodPost, "/api/landing-page/hero/upload", nil,
		part{field: "media", filename: "hero.png", mimeType: "image/png", data: pngBytes},
	), adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var hero struct {
		Files       []string           `json:"files"`
		LandingPage models.LandingPage `json:"landingPage"`
	}
	require.NoError(t, json.Unmarshal(body, &hero))
	require.Len(t, hero.Files, 1)
	assert.Equal(t, hero.Files, hero.LandingPage.Hero.Images)

	resp, body = s.do(t, multipartRequest(t, http.MethodPost, "/api/landing-page/reels", map[string]string{"title": "Tacos"},
		part{field: "media", filename: "thumb.png", mimeType: "image/png", data: pngBytes},
	), adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"No valid video file found. Please upload a video file."}`, string(body))

	resp, body = s.do(t, multipartRequest(t, http.MethodPost, "/api/site-settings/upload", map[string]string{"type": "logo"},
		part{field: "image", filename: "logo.png", mimeType: "image/png", data: pngBytes},
	), adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var uploaded struct {
		ImageURL string              `json:"imageUrl"`
		Settings models.SiteSettings `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(body, &uploaded))
	assert.Equal(t, uploaded.ImageURL, uploaded.Settings.Logo)

	resp, body = s.do(t, jsonRequest(http.MethodPut, "/api/navigation", []map[string]any{
		{"label": "Home", "url": "/"},
	}), adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/navigation", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []models.NavigationItem
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "media_store_uploaded_bytes_total")
}
