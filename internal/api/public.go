package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"portfolio/internal/apperr"
	"portfolio/internal/content"
	"portfolio/internal/display"
	"portfolio/internal/graphflow"
	"portfolio/internal/livecache"
)

const ContactThanks = "Thank you for reaching out. I'll get back to you soon."

func (s *Server) buildPage(c *gin.Context) (display.Page, error) {
	sections, sectionsOK := s.Caches.Sections.Read()
	projects, projectsOK := s.Caches.Projects.Read()
	articles, articlesOK := s.Caches.Articles.Read()
	return s.Pages.Build(c.Request.Context(), graphflow.PageInput{
		Sections:   sections,
		SectionsOK: sectionsOK,
		Projects:   projects,
		ProjectsOK: projectsOK,
		Articles:   articles,
		ArticlesOK: articlesOK,
		Topic:      c.Query("topic"),
		Year:       s.Now().Year(),
	})
}

func (s *Server) index(c *gin.Context) {
	page, err := s.buildPage(c)
	if err != nil {
		logger.WithError(err).Error("build page")
		c.String(http.StatusInternalServerError, "page unavailable")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"Page": page, "Live": s.Hub != nil})
}

func (s *Server) getContent(c *gin.Context) {
	page, err := s.buildPage(c)
	if err != nil {
		respondErr(c, apperr.Wrap(apperr.CodeStore, "build page", err))
		return
	}
	c.JSON(http.StatusOK, page)
}

// getSection reports the stored section only; it never substitutes defaults.
func (s *Server) getSection(c *gin.Context) {
	key := c.Param("key")
	if _, ok := s.Caches.Sections.Read(); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true, "status": s.Caches.Sections.Status()})
		return
	}
	sec, ok := livecache.ResolveSection(s.Caches.Sections, key)
	if !ok {
		respondErr(c, apperr.NotFound("section", key))
		return
	}
	c.JSON(http.StatusOK, sec)
}

func (s *Server) listProjects(c *gin.Context) {
	projects, ok := s.Caches.Projects.Read()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true, "status": s.Caches.Projects.Status()})
		return
	}
	if projects == nil {
		projects = []content.Project{}
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) listArticles(c *gin.Context) {
	articles, ok := s.Caches.Articles.Read()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true, "status": s.Caches.Articles.Status()})
		return
	}
	if articles == nil {
		articles = []content.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

type ContactRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" form:"subject" validate:"max=200"`
	Message string `json:"message" form:"message" validate:"required,max=1000"`
}

var contactFieldErrors = map[string]string{
	"Name":    "Name is required and must be less than 100 characters",
	"Email":   "Please enter a valid email address",
	"Subject": "Subject must be less than 200 characters",
	"Message": "Message is required and must be less than 1000 characters",
}

// submitContact validates and acknowledges a contact message. Nothing is
// stored or sent; the message is only logged.
func (s *Server) submitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		badPayload(c)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if err := validate.Struct(req); err != nil {
		fields := gin.H{}
		for _, name := range []string{"Name", "Email", "Subject", "Message"} {
			if fieldFailed(err, name) {
				fields[strings.ToLower(name)] = contactFieldErrors[name]
			}
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Please fix the highlighted fields",
			"code":   apperr.CodeValidation,
			"fields": fields,
		})
		return
	}

	logger.WithFields(logrus.Fields{"email": req.Email, "subject": req.Subject}).Info("contact message received")
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": ContactThanks})
}

func fieldFailed(err error, field string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() == field {
			return true
		}
	}
	return false
}
