package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"portfolio/internal/apperr"
)

type fakeSessions struct {
	principals map[string]Principal
	err        error
	delay      time.Duration
}

func (f fakeSessions) Lookup(ctx context.Context, token string) (Principal, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Principal{}, ctx.Err()
		}
	}
	if f.err != nil {
		return Principal{}, f.err
	}
	p, ok := f.principals[token]
	if !ok {
		return Principal{}, ErrNoSession
	}
	return p, nil
}

func gateRouter(g *Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.String(http.StatusOK, "hello "+p.Email)
	}
	r.GET("/admin", g.Require(), handler)
	r.GET("/api/admin/content", g.Require(), handler)
	return r
}

func serve(r http.Handler, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withCookie(token string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }
}

func testSessions() fakeSessions {
	return fakeSessions{principals: map[string]Principal{
		"admin-token":  {Email: "admin@example.com", Roles: []string{RoleAdmin}},
		"viewer-token": {Email: "viewer@example.com"},
	}}
}

func TestGateAdmitsAdmins(t *testing.T) {
	r := gateRouter(NewGate(testSessions(), RoleAdmin, time.Second))

	w := serve(r, "/admin", withCookie("admin-token"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello admin@example.com", w.Body.String())

	w = serve(r, "/api/admin/content", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer admin-token")
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateRedirectsAnonymousPages(t *testing.T) {
	r := gateRouter(NewGate(testSessions(), RoleAdmin, time.Second))

	w := serve(r, "/admin", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth", w.Header().Get("Location"))

	w = serve(r, "/api/admin/content", withCookie("stale"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHENTICATION_REQUIRED")
}

func TestGateDeniesNonAdmins(t *testing.T) {
	r := gateRouter(NewGate(testSessions(), RoleAdmin, time.Second))

	w := serve(r, "/admin", withCookie("viewer-token"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access Denied")
	assert.Contains(t, w.Body.String(), "You don't have admin privileges")
	assert.Contains(t, w.Body.String(), `href="/"`)

	w = serve(r, "/api/admin/content", withCookie("viewer-token"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_PERMISSIONS")
}

func TestGateShowsLoadingWhileLookupIsSlow(t *testing.T) {
	slow := testSessions()
	slow.delay = time.Second
	r := gateRouter(NewGate(slow, RoleAdmin, 20*time.Millisecond))

	w := serve(r, "/admin", withCookie("admin-token"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Loading...")
	assert.Contains(t, w.Body.String(), `http-equiv="refresh"`)
}

func TestGateCheckStates(t *testing.T) {
	g := NewGate(testSessions(), RoleAdmin, time.Second)
	ctx := context.Background()

	assert.Equal(t, Unauthenticated, g.Check(ctx, "").State)
	assert.Equal(t, Authenticated, g.Check(ctx, "admin-token").State)
	assert.Equal(t, Denied, g.Check(ctx, "viewer-token").State)

	broken := NewGate(fakeSessions{err: apperr.Store("load session", errors.New("conn reset"))}, RoleAdmin, time.Second)
	assert.Equal(t, Checking, broken.Check(ctx, "admin-token").State)
}

func TestTokenFromRequestRejectsOtherSchemes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Basic abc")
	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	assert.Equal(t, "", TokenFromRequest(c))
}
