package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/apperr"
	"portfolio/internal/auth"
	"portfolio/internal/content"
	"portfolio/internal/editor"
)

type adminSection struct {
	content.Section
	Label       string `json:"label"`
	HasMetadata bool   `json:"hasMetadata"`
}

type adminProject struct {
	content.Project
	Hidden bool `json:"hidden"`
}

type adminArticle struct {
	content.Article
	Hidden bool `json:"hidden"`
}

type adminListing struct {
	Sections []adminSection `json:"sections"`
	Projects []adminProject `json:"projects"`
	Articles []adminArticle `json:"articles"`
}

// listing reads every row straight from the store, inactive ones included.
func (s *Server) listing(ctx context.Context) (adminListing, error) {
	sections, err := s.Repo.ListSections(ctx)
	if err != nil {
		return adminListing{}, err
	}
	projects, err := s.Repo.ListProjects(ctx, false)
	if err != nil {
		return adminListing{}, err
	}
	articles, err := s.Repo.ListArticles(ctx, false)
	if err != nil {
		return adminListing{}, err
	}

	out := adminListing{
		Sections: make([]adminSection, 0, len(sections)),
		Projects: make([]adminProject, 0, len(projects)),
		Articles: make([]adminArticle, 0, len(articles)),
	}
	for _, sec := range sections {
		out.Sections = append(out.Sections, adminSection{Section: sec, Label: editor.SectionLabel(sec.Key), HasMetadata: editor.HasMetadataSchema(sec.Key)})
	}
	for _, p := range projects {
		out.Projects = append(out.Projects, adminProject{Project: p, Hidden: !p.IsActive})
	}
	for _, a := range articles {
		out.Articles = append(out.Articles, adminArticle{Article: a, Hidden: !a.IsActive})
	}
	return out, nil
}

func (s *Server) adminPage(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)
	data := gin.H{"Email": p.Email}
	listing, err := s.listing(c.Request.Context())
	if err != nil {
		logger.WithError(err).Warn("admin listing")
		data["Error"] = apperr.Message(err)
	}
	data["Listing"] = listing
	c.HTML(http.StatusOK, "admin.html", data)
}

func (s *Server) adminContent(c *gin.Context) {
	listing, err := s.listing(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// session returns the caller's draft workspace, locked. Callers must unlock.
func (s *Server) session(c *gin.Context) *editor.Session {
	p, _ := auth.CurrentPrincipal(c)
	sess := s.Drafts.Session(p.Token)
	sess.Lock()
	return sess
}

type sectionDraftView struct {
	*editor.SectionDraft
	Label         string   `json:"label"`
	MetadataKeys  []string `json:"metadataKeys"`
	MetadataError string   `json:"metadataError,omitempty"`
	HasChanges    bool     `json:"hasChanges"`
	CanPublish    bool     `json:"canPublish"`
}

func sectionView(d *editor.SectionDraft) sectionDraftView {
	v := sectionDraftView{
		SectionDraft: d,
		Label:        editor.SectionLabel(d.Key),
		MetadataKeys: editor.MetadataKeys(d.Key),
		HasChanges:   d.HasChanges(),
		CanPublish:   d.CanPublish(),
	}
	if err := d.MetadataError(); err != nil {
		v.MetadataError = apperr.Message(err)
	}
	return v
}

func (s *Server) sectionDraft(c *gin.Context, sess *editor.Session) (*editor.SectionDraft, error) {
	base, err := s.Repo.GetSection(c.Request.Context(), c.Param("key"))
	if err != nil {
		return nil, err
	}
	return sess.Section(base), nil
}

func (s *Server) getSectionDraft(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.sectionDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sectionView(d))
}

func (s *Server) editSectionDraft(c *gin.Context) {
	var edit editor.SectionEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		badPayload(c)
		return
	}
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.sectionDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := d.Apply(edit); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sectionView(d))
}

func (s *Server) publishSection(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.sectionDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if _, err := d.Publish(c.Request.Context(), s.Repo); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sectionView(d))
}

func (s *Server) uploadSectionImage(c *gin.Context) {
	f, ok := s.readUpload(c)
	if !ok {
		return
	}
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.sectionDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if _, err := d.AttachImage(c.Request.Context(), s.Uploader, f); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sectionView(d))
}

type projectDraftView struct {
	*editor.ProjectDraft
	HasChanges bool   `json:"hasChanges"`
	CanPublish bool   `json:"canPublish"`
	Problem    string `json:"problem,omitempty"`
}

func projectView(d *editor.ProjectDraft) projectDraftView {
	v := projectDraftView{ProjectDraft: d, HasChanges: d.HasChanges(), CanPublish: d.CanPublish()}
	if err := d.Validate(); err != nil {
		v.Problem = apperr.Message(err)
	}
	return v
}

// projectDraft finds the draft filed under the key in the URL: an unpublished
// new draft, or the draft of a stored project.
func (s *Server) projectDraft(c *gin.Context, sess *editor.Session) (*editor.ProjectDraft, error) {
	key := c.Param("key")
	if d, ok := sess.LookupProject(key); ok && d.IsNew() {
		return d, nil
	}
	projects, err := s.Repo.ListProjects(c.Request.Context(), false)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.ID == key {
			return sess.Project(p), nil
		}
	}
	return nil, apperr.NotFound("project", key)
}

func (s *Server) newProjectDraft(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	c.JSON(http.StatusCreated, projectView(sess.NewProject()))
}

func (s *Server) getProjectDraft(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.projectDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projectView(d))
}

func (s *Server) editProjectDraft(c *gin.Context) {
	var edit editor.ProjectEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		badPayload(c)
		return
	}
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.projectDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := d.Apply(edit); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projectView(d))
}

func (s *Server) publishProject(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.projectDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if _, err := sess.PublishProject(c.Request.Context(), s.Repo, d.Key); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projectView(d))
}

func (s *Server) uploadProjectImage(c *gin.Context) {
	f, ok := s.readUpload(c)
	if !ok {
		return
	}
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.projectDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if _, err := d.AttachImage(c.Request.Context(), s.Uploader, f); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projectView(d))
}

func (s *Server) deleteProject(c *gin.Context) {
	s.deleteRow(c, s.Repo.DeleteProject)
}

type articleDraftView struct {
	*editor.ArticleDraft
	HasChanges bool   `json:"hasChanges"`
	CanPublish bool   `json:"canPublish"`
	Problem    string `json:"problem,omitempty"`
}

func articleView(d *editor.ArticleDraft) articleDraftView {
	v := articleDraftView{ArticleDraft: d, HasChanges: d.HasChanges(), CanPublish: d.CanPublish()}
	if err := d.Validate(); err != nil {
		v.Problem = apperr.Message(err)
	}
	return v
}

func (s *Server) articleDraft(c *gin.Context, sess *editor.Session) (*editor.ArticleDraft, error) {
	key := c.Param("key")
	if d, ok := sess.LookupArticle(key); ok && d.IsNew() {
		return d, nil
	}
	articles, err := s.Repo.ListArticles(c.Request.Context(), false)
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		if a.ID == key {
			return sess.Article(a), nil
		}
	}
	return nil, apperr.NotFound("article", key)
}

func (s *Server) newArticleDraft(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	c.JSON(http.StatusCreated, articleView(sess.NewArticle()))
}

func (s *Server) getArticleDraft(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.articleDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articleView(d))
}

func (s *Server) editArticleDraft(c *gin.Context) {
	var edit editor.ArticleEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		badPayload(c)
		return
	}
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.articleDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := d.Apply(edit); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articleView(d))
}

func (s *Server) toggleArticleTag(c *gin.Context) {
	var req struct {
		Tag string `json:"tag" form:"tag"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badPayload(c)
		return
	}
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.articleDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := d.ToggleTag(req.Tag); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articleView(d))
}

func (s *Server) publishArticle(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.articleDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if _, err := sess.PublishArticle(c.Request.Context(), s.Repo, d.Key); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articleView(d))
}

func (s *Server) uploadArticleImage(c *gin.Context) {
	f, ok := s.readUpload(c)
	if !ok {
		return
	}
	sess := s.session(c)
	defer sess.Unlock()
	d, err := s.articleDraft(c, sess)
	if err != nil {
		respondErr(c, err)
		return
	}
	if _, err := d.AttachImage(c.Request.Context(), s.Uploader, f); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articleView(d))
}

func (s *Server) deleteArticle(c *gin.Context) {
	s.deleteRow(c, s.Repo.DeleteArticle)
}

func (s *Server) discardDraft(c *gin.Context) {
	sess := s.session(c)
	defer sess.Unlock()
	sess.Discard(c.Param("key"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// deleteRow treats a row that is already gone as deleted.
func (s *Server) deleteRow(c *gin.Context, del func(ctx context.Context, id string) error) {
	id := c.Param("key")
	err := del(c.Request.Context(), id)
	gone := errors.Is(err, content.ErrRowGone)
	if err != nil && !gone {
		respondErr(c, err)
		return
	}
	sess := s.session(c)
	sess.Discard(id)
	sess.Unlock()
	c.JSON(http.StatusOK, gin.H{"ok": true, "alreadyGone": gone})
}

// readUpload reads the multipart "file" field. The request body is capped a
// little above the upload limit so an oversized image still reaches
// validation and gets its size reported.
func (s *Server) readUpload(c *gin.Context) (editor.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*s.Uploader.MaxBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile):
			respondErr(c, apperr.Validation("select an image file to upload"))
		case errors.As(err, &tooLarge):
			respondErr(c, apperr.Validation("image exceeds the upload limit"))
		default:
			respondErr(c, apperr.Validation("could not read the upload: %v", err))
		}
		return editor.File{}, false
	}
	src, err := fh.Open()
	if err != nil {
		respondErr(c, apperr.Validation("could not read the uploaded file"))
		return editor.File{}, false
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		respondErr(c, apperr.Validation("could not read the uploaded file"))
		return editor.File{}, false
	}
	return editor.File{
		Name:        fh.Filename,
		ContentType: strings.TrimSpace(fh.Header.Get("Content-Type")),
		Data:        data,
	}, true
}
