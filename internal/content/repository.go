// Package content is the typed access layer over the portfolio tables.
package content

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfolio/internal/apperr"
	"portfolio/internal/models"
	"portfolio/internal/notify"
)

// ErrRowGone is wrapped by the store error returned when a delete matches no
// row. Callers may treat it as success.
var ErrRowGone = errors.New("row already gone")

type SectionStore interface {
	ListSections(ctx context.Context) ([]Section, error)
	GetSection(ctx context.Context, key string) (Section, error)
	CreateSection(ctx context.Context, in SectionInput) (Section, error)
	UpdateSection(ctx context.Context, id string, patch SectionPatch) (Section, error)
}

type ProjectStore interface {
	ListProjects(ctx context.Context, activeOnly bool) ([]Project, error)
	CreateProject(ctx context.Context, in ProjectInput) (Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type ArticleStore interface {
	ListArticles(ctx context.Context, activeOnly bool) ([]Article, error)
	CreateArticle(ctx context.Context, in ArticleInput) (Article, error)
	UpdateArticle(ctx context.Context, id string, patch ArticlePatch) (Article, error)
	DeleteArticle(ctx context.Context, id string) error
}

// Store is the full repository surface used by the admin API.
type Store interface {
	SectionStore
	ProjectStore
	ArticleStore
}

var _ Store = (*Repository)(nil)

// Invalidator is run synchronously after a successful write to its table.
type Invalidator func(ctx context.Context) error

type Repository struct {
	db  *gorm.DB
	pub notify.Publisher
	log *logrus.Entry

	mu           sync.RWMutex
	invalidators map[string][]Invalidator
}

// NewRepository returns a repository over db. pub may be nil, in which case
// no change events are published.
func NewRepository(db *gorm.DB, pub notify.Publisher) *Repository {
	return &Repository{
		db:           db,
		pub:          pub,
		log:          logrus.WithField("component", "content"),
		invalidators: make(map[string][]Invalidator),
	}
}

// OnWrite registers fn to run after every successful write to table, before
// the write returns to its caller.
func (r *Repository) OnWrite(table string, fn Invalidator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidators[table] = append(r.invalidators[table], fn)
}

func (r *Repository) afterWrite(ctx context.Context, table string, op notify.Op, id string) {
	r.mu.RLock()
	fns := append([]Invalidator(nil), r.invalidators[table]...)
	r.mu.RUnlock()

	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			r.log.WithError(err).WithField("table", table).Warn("local invalidation failed")
		}
	}

	if r.pub == nil {
		return
	}
	ev := notify.Event{Table: table, Op: op, ID: id, At: time.Now().UTC()}
	if err := r.pub.Publish(ctx, ev); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{"table": table, "id": id}).Warn("publish change event failed")
	}
}

func storeErr(msg string, err error) error {
	return apperr.Store(msg, err)
}

func lookupErr(what, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what, id)
	}
	return storeErr("load "+what, err)
}

func (r *Repository) ListSections(ctx context.Context) ([]Section, error) {
	var rows []models.PortfolioContent
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, storeErr("list sections", err)
	}
	out := make([]Section, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSection(row))
	}
	return out, nil
}

func (r *Repository) GetSection(ctx context.Context, key string) (Section, error) {
	var row models.PortfolioContent
	if err := r.db.WithContext(ctx).Where("section_id = ?", key).First(&row).Error; err != nil {
		return Section{}, lookupErr("section", key, err)
	}
	return toSection(row), nil
}

func (r *Repository) CreateSection(ctx context.Context, in SectionInput) (Section, error) {
	if err := in.validate(); err != nil {
		return Section{}, err
	}
	meta := in.Metadata
	if len(meta) == 0 {
		meta = []byte("{}")
	}
	row := models.PortfolioContent{
		ID:         uuid.New().String(),
		SectionKey: in.Key,
		Headline:   nullable(in.Headline),
		BodyText:   nullable(in.BodyText),
		ImageURL:   nullable(in.ImageURL),
		CTALink:    nullable(in.CTALink),
		CTAText:    nullable(in.CTAText),
		Metadata:   meta,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Section{}, storeErr("create section", err)
	}
	r.afterWrite(ctx, notify.TableSections, notify.OpInsert, row.ID)
	return toSection(row), nil
}

func (r *Repository) UpdateSection(ctx context.Context, id string, patch SectionPatch) (Section, error) {
	updates, err := patch.updates()
	if err != nil {
		return Section{}, err
	}
	var row models.PortfolioContent
	if err := r.update(ctx, "section", id, &row, updates); err != nil {
		return Section{}, err
	}
	r.afterWrite(ctx, notify.TableSections, notify.OpUpdate, id)
	return toSection(row), nil
}

func (r *Repository) ListProjects(ctx context.Context, activeOnly bool) ([]Project, error) {
	q := r.db.WithContext(ctx).Order("display_order asc").Order("created_at asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.Project
	if err := q.Find(&rows).Error; err != nil {
		return nil, storeErr("list projects", err)
	}
	out := make([]Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProject(row))
	}
	return out, nil
}

func (r *Repository) CreateProject(ctx context.Context, in ProjectInput) (Project, error) {
	if err := in.normalize(); err != nil {
		return Project{}, err
	}
	row := models.Project{
		ID:             uuid.New().String(),
		Title:          in.Title,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		Category:       in.Category,
		Link:           nullable(in.Link),
		Metric:         nullable(in.Metric),
		MetricLabel:    nullable(in.MetricLabel),
		HighlightsJSON: encodeStrings(in.Highlights),
		TechStackJSON:  encodeStrings(in.TechStack),
		Size:           in.Size,
		DisplayOrder:   in.DisplayOrder,
		IsActive:       in.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Project{}, storeErr("create project", err)
	}
	r.afterWrite(ctx, notify.TableProjects, notify.OpInsert, row.ID)
	return toProject(row), nil
}

func (r *Repository) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (Project, error) {
	updates, err := patch.updates()
	if err != nil {
		return Project{}, err
	}
	var row models.Project
	if err := r.update(ctx, "project", id, &row, updates); err != nil {
		return Project{}, err
	}
	r.afterWrite(ctx, notify.TableProjects, notify.OpUpdate, id)
	return toProject(row), nil
}

func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	if err := r.delete(ctx, "project", id, &models.Project{}); err != nil {
		return err
	}
	r.afterWrite(ctx, notify.TableProjects, notify.OpDelete, id)
	return nil
}

func (r *Repository) ListArticles(ctx context.Context, activeOnly bool) ([]Article, error) {
	q := r.db.WithContext(ctx).Order("display_order asc").Order("created_at asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.Article
	if err := q.Find(&rows).Error; err != nil {
		return nil, storeErr("list articles", err)
	}
	out := make([]Article, 0, len(rows))
	for _, row := range rows {
		out = append(out, toArticle(row))
	}
	return out, nil
}

func (r *Repository) CreateArticle(ctx context.Context, in ArticleInput) (Article, error) {
	tags, err := in.normalize()
	if err != nil {
		return Article{}, err
	}
	row := models.Article{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Summary:      in.Summary,
		ImageURL:     in.ImageURL,
		TagsJSON:     encodeStrings(tagStrings(tags)),
		ArticleURL:   nullable(in.ArticleURL),
		ReadTime:     in.ReadTime,
		DisplayOrder: in.DisplayOrder,
		IsActive:     in.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Article{}, storeErr("create article", err)
	}
	r.afterWrite(ctx, notify.TableArticles, notify.OpInsert, row.ID)
	return toArticle(row), nil
}

func (r *Repository) UpdateArticle(ctx context.Context, id string, patch ArticlePatch) (Article, error) {
	updates, err := patch.updates()
	if err != nil {
		return Article{}, err
	}
	var row models.Article
	if err := r.update(ctx, "article", id, &row, updates); err != nil {
		return Article{}, err
	}
	r.afterWrite(ctx, notify.TableArticles, notify.OpUpdate, id)
	return toArticle(row), nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id string) error {
	if err := r.delete(ctx, "article", id, &models.Article{}); err != nil {
		return err
	}
	r.afterWrite(ctx, notify.TableArticles, notify.OpDelete, id)
	return nil
}

// update loads the row, applies updates and reloads it into dest.
func (r *Repository) update(ctx context.Context, what, id string, dest any, updates map[string]any) error {
	gdb := r.db.WithContext(ctx)
	if err := gdb.First(dest, "id = ?", id).Error; err != nil {
		return lookupErr(what, id, err)
	}
	if len(updates) > 0 {
		if err := gdb.Model(dest).Updates(updates).Error; err != nil {
			return storeErr("update "+what, err)
		}
	}
	if err := gdb.First(dest, "id = ?", id).Error; err != nil {
		return lookupErr(what, id, err)
	}
	return nil
}

func (r *Repository) delete(ctx context.Context, what, id string, model any) error {
	res := r.db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return storeErr("delete "+what, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Store("delete "+what+" "+id, ErrRowGone)
	}
	return nil
}
