// Package api is the HTTP surface: the public page and its JSON feeds, the
// live channel, sign-in, and the gated admin editor.
package api

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"portfolio/internal/apperr"
	"portfolio/internal/auth"
	"portfolio/internal/content"
	"portfolio/internal/editor"
	"portfolio/internal/graphflow"
	"portfolio/internal/livecache"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	Repo     content.Store
	Caches   *livecache.Set
	Pages    *graphflow.Assembler
	Auth     *auth.Service
	Gate     *auth.Gate
	Drafts   *editor.Workspace
	Uploader *editor.Uploader
	Hub      *Hub
	// SecureCookies marks the session cookie Secure; set when served over TLS.
	SecureCookies bool
	SessionTTL    time.Duration
	Now           func() time.Time
}

var (
	validate = validator.New()
	logger   = logrus.WithField("component", "api")
)

func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

func (s *Server) RegisterRoutes(r *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	if s.Now == nil {
		s.Now = time.Now
	}

	r.GET("/healthz", s.health)
	r.GET("/", s.index)

	public := r.Group("/api", cors())
	public.OPTIONS("/*path")
	public.GET("/content", s.getContent)
	public.GET("/sections/:key", s.getSection)
	public.GET("/projects", s.listProjects)
	public.GET("/articles", s.listArticles)
	public.POST("/contact", s.submitContact)
	if s.Hub != nil {
		r.GET("/api/live", s.Hub.Handle)
	}

	r.GET("/auth", s.authPage)
	r.POST("/auth/signin", s.signIn)
	r.POST("/auth/signup", s.signUp)
	r.POST("/auth/signout", s.signOut)

	r.GET("/admin", s.Gate.Require(), s.adminPage)

	admin := r.Group("/api/admin", s.Gate.Require())
	admin.GET("/content", s.adminContent)
	admin.GET("/sections/:key/draft", s.getSectionDraft)
	admin.PATCH("/sections/:key/draft", s.editSectionDraft)
	admin.POST("/sections/:key/publish", s.publishSection)
	admin.POST("/sections/:key/image", s.uploadSectionImage)

	admin.POST("/projects", s.newProjectDraft)
	admin.GET("/projects/:key/draft", s.getProjectDraft)
	admin.PATCH("/projects/:key/draft", s.editProjectDraft)
	admin.DELETE("/projects/:key/draft", s.discardDraft)
	admin.POST("/projects/:key/publish", s.publishProject)
	admin.POST("/projects/:key/image", s.uploadProjectImage)
	admin.DELETE("/projects/:key", s.deleteProject)

	admin.POST("/articles", s.newArticleDraft)
	admin.GET("/articles/:key/draft", s.getArticleDraft)
	admin.PATCH("/articles/:key/draft", s.editArticleDraft)
	admin.DELETE("/articles/:key/draft", s.discardDraft)
	admin.POST("/articles/:key/tags", s.toggleArticleTag)
	admin.POST("/articles/:key/publish", s.publishArticle)
	admin.POST("/articles/:key/image", s.uploadArticleImage)
	admin.DELETE("/articles/:key", s.deleteArticle)
	return nil
}

func (s *Server) health(c *gin.Context) {
	caches := gin.H{}
	for _, cache := range []interface {
		Table() string
		Status() livecache.Status
	}{s.Caches.Sections, s.Caches.Projects, s.Caches.Articles} {
		caches[cache.Table()] = cache.Status()
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "caches": caches})
}

// cors opens the public feeds to other origins. Admin routes are not covered.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// respondErr writes err as {error, code} with the status its code maps to.
func respondErr(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	entry := logger.WithError(err).WithFields(logrus.Fields{"method": c.Request.Method, "path": c.FullPath()})
	if status >= http.StatusInternalServerError {
		entry.Warn("request failed")
	} else {
		entry.Debug("request rejected")
	}
	c.JSON(status, gin.H{"error": apperr.Message(err), "code": apperr.CodeOf(err)})
}

func badPayload(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "code": apperr.CodeValidation})
}
