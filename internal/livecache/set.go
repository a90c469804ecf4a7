package livecache

import (
	"context"
	"errors"

	"portfolio/internal/content"
	"portfolio/internal/notify"
)

// Source is the part of the repository the caches need.
type Source interface {
	ListSections(ctx context.Context) ([]content.Section, error)
	ListProjects(ctx context.Context, activeOnly bool) ([]content.Project, error)
	ListArticles(ctx context.Context, activeOnly bool) ([]content.Article, error)
	OnWrite(table string, fn content.Invalidator)
}

// Set is the process-wide group of caches behind the public page: every
// section, and the active projects and articles.
type Set struct {
	Sections *Cache[[]content.Section]
	Projects *Cache[[]content.Project]
	Articles *Cache[[]content.Article]
}

// NewSet builds the caches and registers them as write invalidators on src,
// so a successful write returns only after the matching cache has refetched.
func NewSet(src Source) *Set {
	s := &Set{
		Sections: New(notify.TableSections, src.ListSections),
		Projects: New(notify.TableProjects, func(ctx context.Context) ([]content.Project, error) {
			return src.ListProjects(ctx, true)
		}),
		Articles: New(notify.TableArticles, func(ctx context.Context) ([]content.Article, error) {
			return src.ListArticles(ctx, true)
		}),
	}
	src.OnWrite(notify.TableSections, s.Sections.Refresh)
	src.OnWrite(notify.TableProjects, s.Projects.Refresh)
	src.OnWrite(notify.TableArticles, s.Articles.Refresh)
	return s
}

func (s *Set) Start(ctx context.Context, sub notify.Subscriber) error {
	for _, start := range []func(context.Context, notify.Subscriber) error{
		s.Sections.Start, s.Projects.Start, s.Articles.Start,
	} {
		if err := start(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// Warm starts the first fetch of every cache.
func (s *Set) Warm() {
	s.Sections.Read()
	s.Projects.Read()
	s.Articles.Read()
}

// OnUpdate registers fn to be called with the table name whenever any cache
// applies a new snapshot.
func (s *Set) OnUpdate(fn func(table string)) {
	s.Sections.OnUpdate(func([]content.Section) { fn(notify.TableSections) })
	s.Projects.OnUpdate(func([]content.Project) { fn(notify.TableProjects) })
	s.Articles.OnUpdate(func([]content.Article) { fn(notify.TableArticles) })
}

func (s *Set) All() []Invalidatable {
	return []Invalidatable{s.Sections, s.Projects, s.Articles}
}

func (s *Set) Close() error {
	return errors.Join(s.Sections.Close(), s.Projects.Close(), s.Articles.Close())
}
