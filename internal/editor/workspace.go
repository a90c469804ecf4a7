package editor

import (
	"context"
	"sync"
	"time"

	"portfolio/internal/apperr"
	"portfolio/internal/content"
)

// Workspace keeps every admin session's drafts between requests.
type Workspace struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewWorkspace(ttl time.Duration) *Workspace {
	return &Workspace{sessions: make(map[string]*Session), ttl: ttl, now: time.Now}
}

// Session returns the drafts of one admin session. Callers hold its lock for
// the length of a request.
func (w *Workspace) Session(token string) *Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[token]
	if !ok {
		s = &Session{
			sections: make(map[string]*SectionDraft),
			projects: make(map[string]*ProjectDraft),
			articles: make(map[string]*ArticleDraft),
		}
		w.sessions[token] = s
	}
	s.touched = w.now()
	return s
}

// Forget drops a session's drafts, e.g. on sign-out.
func (w *Workspace) Forget(token string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.sessions, token)
}

// Sweep drops sessions idle for longer than the workspace ttl.
func (w *Workspace) Sweep() int {
	if w.ttl <= 0 {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	cutoff := w.now().Add(-w.ttl)
	n := 0
	for token, s := range w.sessions {
		if s.touched.Before(cutoff) {
			delete(w.sessions, token)
			n++
		}
	}
	return n
}

type Session struct {
	sync.Mutex
	touched  time.Time
	sections map[string]*SectionDraft
	projects map[string]*ProjectDraft
	articles map[string]*ArticleDraft
}

// Section returns the draft for base, creating it on first use. A draft
// without local changes follows the latest stored record.
func (s *Session) Section(base content.Section) *SectionDraft {
	d, ok := s.sections[base.ID]
	if !ok {
		d = NewSectionDraft(base)
		s.sections[base.ID] = d
	} else if !d.HasChanges() {
		d.Rebase(base)
	}
	return d
}

func (s *Session) Project(base content.Project) *ProjectDraft {
	d, ok := s.projects[base.ID]
	if !ok {
		d = ProjectDraftFrom(base)
		s.projects[base.ID] = d
	} else if !d.HasChanges() {
		d.Rebase(base)
	}
	return d
}

func (s *Session) NewProject() *ProjectDraft {
	d := NewProjectDraft()
	s.projects[d.Key] = d
	return d
}

// LookupProject finds a draft by key without a stored record, which is how
// unpublished new drafts are addressed.
func (s *Session) LookupProject(key string) (*ProjectDraft, bool) {
	d, ok := s.projects[key]
	return d, ok
}

// PublishProject publishes the draft under key and re-files a new draft
// under its assigned id.
func (s *Session) PublishProject(ctx context.Context, store content.ProjectStore, key string) (content.Project, error) {
	d, ok := s.projects[key]
	if !ok {
		return content.Project{}, apperr.NotFound("project draft", key)
	}
	p, err := d.Publish(ctx, store)
	if err != nil {
		return content.Project{}, err
	}
	if key != p.ID {
		delete(s.projects, key)
		s.projects[p.ID] = d
	}
	return p, nil
}

func (s *Session) Article(base content.Article) *ArticleDraft {
	d, ok := s.articles[base.ID]
	if !ok {
		d = ArticleDraftFrom(base)
		s.articles[base.ID] = d
	} else if !d.HasChanges() {
		d.Rebase(base)
	}
	return d
}

func (s *Session) NewArticle() *ArticleDraft {
	d := NewArticleDraft()
	s.articles[d.Key] = d
	return d
}

func (s *Session) LookupArticle(key string) (*ArticleDraft, bool) {
	d, ok := s.articles[key]
	return d, ok
}

func (s *Session) PublishArticle(ctx context.Context, store content.ArticleStore, key string) (content.Article, error) {
	d, ok := s.articles[key]
	if !ok {
		return content.Article{}, apperr.NotFound("article draft", key)
	}
	a, err := d.Publish(ctx, store)
	if err != nil {
		return content.Article{}, err
	}
	if key != a.ID {
		delete(s.articles, key)
		s.articles[a.ID] = d
	}
	return a, nil
}

// Discard drops any project or article draft filed under key.
func (s *Session) Discard(key string) {
	delete(s.projects, key)
	delete(s.articles, key)
}
