package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"portfolio/internal/auth"
	"portfolio/internal/content"
	"portfolio/internal/db"
	"portfolio/internal/display"
	"portfolio/internal/editor"
	"portfolio/internal/graphflow"
	"portfolio/internal/livecache"
	"portfolio/internal/notify"
	"portfolio/internal/storage"
)

type testEnv struct {
	router *gin.Engine
	repo   *content.Repository
	auth   *auth.Service
	store  *storage.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Connect("sqlite", filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)

	ctx := context.Background()
	broker := notify.NewBroker()
	repo := content.NewRepository(gdb, broker)
	caches := livecache.NewSet(repo)
	t.Cleanup(func() { _ = caches.Close() })
	require.NoError(t, caches.Start(ctx, broker))
	require.NoError(t, caches.Sections.Refresh(ctx))
	require.NoError(t, caches.Projects.Refresh(ctx))
	require.NoError(t, caches.Articles.Refresh(ctx))

	pages, err := graphflow.NewAssembler()
	require.NoError(t, err)

	authSvc := auth.NewService(gdb, time.Hour)
	store := storage.NewMemoryStore("http://cdn.test")
	srv := &Server{
		Repo:       repo,
		Caches:     caches,
		Pages:      pages,
		Auth:       authSvc,
		Gate:       auth.NewGate(authSvc, auth.RoleAdmin, time.Second),
		Drafts:     editor.NewWorkspace(time.Hour),
		Uploader:   editor.NewUploader(store, editor.DefaultMaxUploadBytes),
		SessionTTL: time.Hour,
		Now:        func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	}
	r := gin.New()
	require.NoError(t, srv.RegisterRoutes(r))
	return &testEnv{router: r, repo: repo, auth: authSvc, store: store}
}

func (e *testEnv) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path string, v any, token string) *httptest.ResponseRecorder {
	var body io.Reader
	if v != nil {
		b, _ := json.Marshal(v)
		body = bytes.NewReader(b)
	}
	return e.do(method, path, body, "application/json", token)
}

func (e *testEnv) signUp(t *testing.T, email string, admin bool) string {
	t.Helper()
	ctx := context.Background()
	p, err := e.auth.SignUp(ctx, auth.Credentials{Email: email, Password: "secret1"})
	require.NoError(t, err)
	if admin {
		require.NoError(t, e.auth.GrantRole(ctx, p.UserID, auth.RoleAdmin))
	}
	return p.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPublicPageRendersDefaultsWithEmptyStore(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, display.DefaultHeroBadge)
	assert.Contains(t, body, display.DefaultAboutBody)
	assert.Contains(t, body, "© 2026 Seraiah Alexander. All rights reserved.")
	assert.NotContains(t, body, `id="pillars"`)

	w = env.do(http.MethodGet, "/api/content", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page display.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.False(t, page.Loading)
	assert.True(t, page.Pillars.Hidden)
	assert.Len(t, page.Knowledge.Articles, len(display.FallbackArticles()))
}

func TestSectionEndpointNeverFillsDefaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/sections/hero", nil, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])

	_, err := env.repo.CreateSection(context.Background(), content.SectionInput{
		Key: content.KeyHero, Headline: "Hello", Metadata: datatypes.JSON(`{"badge":"X"}`),
	})
	require.NoError(t, err)

	w = env.do(http.MethodGet, "/api/sections/hero", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "Hello", got["headline"])
	assert.Equal(t, map[string]any{"badge": "X"}, got["metadata"])
}

func TestContactValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/contact", map[string]string{
		"name": "", "email": "nope", "message": strings.Repeat("x", 1001),
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "message")
	assert.NotContains(t, fields, "subject")

	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi"}}
	w = env.do(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContactThanks, decode(t, w)["message"])
}

func TestAdminRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/admin/content", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	viewer := env.signUp(t, "viewer@example.com", false)
	w = env.do(http.MethodGet, "/api/admin/content", nil, "", viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := env.signUp(t, "admin@example.com", true)
	w = env.do(http.MethodGet, "/api/admin/content", nil, "", admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignInFormSetsCookie(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "ada@example.com", true)

	form := url.Values{"email": {"ada@example.com"}, "password": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.CookieName, cookies[0].Name)

	page := httptest.NewRequest(http.MethodGet, "/admin", nil)
	page.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, page)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Content Management")
}

func TestSignInFormShowsUniformError(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "ada@example.com", false)

	form := url.Values{"email": {"ada@example.com"}, "password": {"wrong-pass"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), auth.MsgInvalidCredentials)
}

func TestHiddenProjectFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signUp(t, "admin@example.com", true)

	w := env.doJSON(http.MethodPost, "/api/admin/projects", nil, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	key := decode(t, w)["key"].(string)
	require.True(t, strings.HasPrefix(key, "new-"))

	w = env.doJSON(http.MethodPatch, "/api/admin/projects/"+key+"/draft", map[string]any{
		"title": "Case Study", "category": "SEO & Growth", "isActive": false,
	}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["canPublish"])

	w = env.doJSON(http.MethodPost, "/api/admin/projects/"+key+"/publish", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)
	require.NotEmpty(t, id)

	w = env.do(http.MethodGet, "/api/admin/content", nil, "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	projects := decode(t, w)["projects"].([]any)
	require.Len(t, projects, 1)
	assert.Equal(t, true, projects[0].(map[string]any)["hidden"])

	w = env.do(http.MethodGet, "/api/projects", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = env.do(http.MethodGet, "/api/admin/projects/"+id+"/draft", nil, "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["hasChanges"])
}

func TestOutOfEnumCategoryIsRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signUp(t, "admin@example.com", true)

	w := env.doJSON(http.MethodPost, "/api/admin/projects", nil, admin)
	key := decode(t, w)["key"].(string)

	w = env.doJSON(http.MethodPatch, "/api/admin/projects/"+key+"/draft", map[string]any{
		"title": "X", "category": "Gardening",
	}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["code"])

	w = env.do(http.MethodGet, "/api/admin/projects/"+key+"/draft", nil, "", admin)
	draft := decode(t, w)["draft"].(map[string]any)
	assert.Equal(t, "", draft["title"])
	assert.Equal(t, string(content.DefaultProjectCategory), draft["category"])
}

func TestArticlePublishGatedOnTags(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signUp(t, "admin@example.com", true)

	w := env.doJSON(http.MethodPost, "/api/admin/articles", nil, admin)
	key := decode(t, w)["key"].(string)

	w = env.doJSON(http.MethodPatch, "/api/admin/articles/"+key+"/draft", map[string]any{"title": "Fasting"}, admin)
	got := decode(t, w)
	assert.Equal(t, false, got["canPublish"])
	assert.Equal(t, "select at least one tag", got["problem"])

	w = env.doJSON(http.MethodPost, "/api/admin/articles/"+key+"/publish", nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.doJSON(http.MethodPost, "/api/admin/articles/"+key+"/tags", map[string]string{"tag": "Metabolic Health"}, admin)
	assert.Equal(t, true, decode(t, w)["canPublish"])

	w = env.doJSON(http.MethodPost, "/api/admin/articles/"+key+"/publish", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/articles", nil, "", "")
	var articles []content.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, content.DefaultReadTime, articles[0].ReadTime)
}

func TestSectionDraftKeepsMetadata(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signUp(t, "admin@example.com", true)
	_, err := env.repo.CreateSection(context.Background(), content.SectionInput{
		Key: content.KeyHero, Headline: "Old", Metadata: datatypes.JSON(`{"badge":"X"}`),
	})
	require.NoError(t, err)

	w := env.doJSON(http.MethodPatch, "/api/admin/sections/hero/draft", map[string]any{"headline": "New"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hero Section", decode(t, w)["label"])

	w = env.doJSON(http.MethodPost, "/api/admin/sections/hero/publish", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/sections/hero", nil, "", "")
	got := decode(t, w)
	assert.Equal(t, "New", got["headline"])
	assert.Equal(t, map[string]any{"badge": "X"}, got["metadata"])

	w = env.doJSON(http.MethodPatch, "/api/admin/sections/hero/draft", map[string]any{"metadata": "{not json"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode(t, w)
	assert.Equal(t, false, got["canPublish"])
	assert.NotEmpty(t, got["metadataError"])
}

func multipartImage(t *testing.T, name, contentType string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func pngOfSize(n int) []byte {
	b := make([]byte, n)
	copy(b, pngHeader)
	return b
}

func TestImageUpload(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signUp(t, "admin@example.com", true)
	w := env.doJSON(http.MethodPost, "/api/admin/projects", nil, admin)
	key := decode(t, w)["key"].(string)

	body, ct := multipartImage(t, "big.png", "image/png", pngOfSize(6<<20))
	w = env.do(http.MethodPost, "/api/admin/projects/"+key+"/image", body, ct, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w)["error"], "5.0 MiB")
	assert.Equal(t, 0, env.store.Len())

	body, ct = multipartImage(t, "notes.txt", "text/plain", []byte("hello"))
	w = env.do(http.MethodPost, "/api/admin/projects/"+key+"/image", body, ct, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body, ct = multipartImage(t, "me.png", "image/png", pngOfSize(1024))
	w = env.do(http.MethodPost, "/api/admin/projects/"+key+"/image", body, ct, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft := decode(t, w)["draft"].(map[string]any)
	assert.True(t, strings.HasPrefix(draft["imageUrl"].(string), "http://cdn.test/projects/"))
	assert.Equal(t, 1, env.store.Len())
}

func TestDeleteTwiceIsTolerated(t *testing.T) {
	env := newTestEnv(t)
	admin := env.signUp(t, "admin@example.com", true)
	p, err := env.repo.CreateProject(context.Background(), content.ProjectInput{Title: "Shroomer", IsActive: true})
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/projects", nil, "", "")
	assert.Contains(t, w.Body.String(), "Shroomer")

	w = env.do(http.MethodDelete, "/api/admin/projects/"+p.ID, nil, "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["alreadyGone"])

	w = env.do(http.MethodDelete, "/api/admin/projects/"+p.ID, nil, "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["alreadyGone"])

	w = env.do(http.MethodGet, "/api/projects", nil, "", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestPublicFeedsAllowCrossOrigin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodOptions, "/api/content", nil, "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = env.do(http.MethodGet, "/api/projects", nil, "", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	admin := env.signUp(t, "admin@example.com", true)
	w = env.do(http.MethodGet, "/api/admin/content", nil, "", admin)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
