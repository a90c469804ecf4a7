package auth

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portfolio/internal/apperr"
)

const (
	CookieName   = "portfolio_session"
	principalKey = "principal"
)

// GateState is the outcome of checking a request against the admin gate.
type GateState int

const (
	Checking GateState = iota
	Authenticated
	Unauthenticated
	Denied
)

func (s GateState) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	case Denied:
		return "denied"
	}
	return "unknown"
}

type Lookuper interface {
	Lookup(ctx context.Context, token string) (Principal, error)
}

type Decision struct {
	State     GateState
	Principal Principal
}

type Gate struct {
	sessions Lookuper
	role     string
	timeout  time.Duration
	log      *logrus.Entry
}

// NewGate admits principals holding role. A lookup that has not answered
// within timeout leaves the request in the Checking state.
func NewGate(sessions Lookuper, role string, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Gate{sessions: sessions, role: role, timeout: timeout, log: logrus.WithField("component", "gate")}
}

func (g *Gate) Check(ctx context.Context, token string) Decision {
	if token == "" {
		return Decision{State: Unauthenticated}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		p   Principal
		err error
	}
	done := make(chan result, 1)
	go func() {
		p, err := g.sessions.Lookup(ctx, token)
		done <- result{p, err}
	}()

	select {
	case <-ctx.Done():
		return Decision{State: Checking}
	case r := <-done:
		switch {
		case r.err == nil:
		case apperr.Is(r.err, apperr.CodeAuth):
			return Decision{State: Unauthenticated}
		default:
			g.log.WithError(r.err).Warn("session lookup failed")
			return Decision{State: Checking}
		}
		if !r.p.HasRole(g.role) {
			return Decision{State: Denied, Principal: r.p}
		}
		return Decision{State: Authenticated, Principal: r.p}
	}
}

// TokenFromRequest reads a Bearer token, falling back to the session cookie.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// Require guards the routes behind it. Admitted requests carry their
// Principal, see CurrentPrincipal.
func (g *Gate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := g.Check(c.Request.Context(), TokenFromRequest(c))
		api := wantsJSON(c)

		switch d.State {
		case Authenticated:
			c.Set(principalKey, d.Principal)
			c.Next()
			return
		case Checking:
			if api {
				c.Header("Retry-After", "1")
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session check is still pending", "code": "AUTH_PENDING"})
			} else {
				renderPage(c, http.StatusOK, "loading", nil)
			}
		case Unauthenticated:
			if api {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "code": "AUTHENTICATION_REQUIRED"})
			} else {
				c.Redirect(http.StatusFound, "/auth")
			}
		case Denied:
			if api {
				c.JSON(http.StatusForbidden, gin.H{"error": deniedBody, "code": "INSUFFICIENT_PERMISSIONS"})
			} else {
				renderPage(c, http.StatusForbidden, "denied", nil)
			}
		}
		c.Abort()
	}
}

func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

const deniedBody = "You don't have admin privileges to access this page."

var gatePages = template.Must(template.New("gate").Parse(`
{{define "loading"}}<!doctype html>
<html><head><meta charset="utf-8"><meta http-equiv="refresh" content="1"><title>Loading...</title></head>
<body class="gate"><p class="gate-loading">Loading...</p></body></html>{{end}}
{{define "denied"}}<!doctype html>
<html><head><meta charset="utf-8"><title>Access Denied</title></head>
<body class="gate"><main>
<h1>Access Denied</h1>
<p>You don't have admin privileges to access this page.</p>
<a href="/">← Return to Portfolio</a>
</main></body></html>{{end}}
`))

func renderPage(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := gatePages.ExecuteTemplate(&buf, name, data); err != nil {
		c.String(http.StatusInternalServerError, "gate page: %v", err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
