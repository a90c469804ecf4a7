package editor

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"portfolio/internal/apperr"
	"portfolio/internal/content"
)

type ArticleFields struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	ImageURL     string   `json:"imageUrl"`
	Tags         []string `json:"tags"`
	ArticleURL   string   `json:"articleUrl"`
	ReadTime     string   `json:"readTime"`
	DisplayOrder int      `json:"displayOrder"`
	IsActive     bool     `json:"isActive"`
}

type ArticleEdit struct {
	Title        *string   `json:"title"`
	Summary      *string   `json:"summary"`
	ImageURL     *string   `json:"imageUrl"`
	Tags         *[]string `json:"tags"`
	ArticleURL   *string   `json:"articleUrl"`
	ReadTime     *string   `json:"readTime"`
	DisplayOrder *int      `json:"displayOrder"`
	IsActive     *bool     `json:"isActive"`
}

type ArticleDraft struct {
	Key   string        `json:"key"`
	ID    string        `json:"id"`
	Saved ArticleFields `json:"saved"`
	Draft ArticleFields `json:"draft"`
}

func NewArticleDraft() *ArticleDraft {
	blank := ArticleFields{Tags: []string{}, ReadTime: content.DefaultReadTime, IsActive: true}
	return &ArticleDraft{Key: "new-" + uuid.NewString(), Saved: blank, Draft: cloneArticle(blank)}
}

func ArticleDraftFrom(a content.Article) *ArticleDraft {
	d := &ArticleDraft{}
	d.Rebase(a)
	return d
}

func (d *ArticleDraft) Rebase(a content.Article) {
	tags := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		tags[i] = string(t)
	}
	d.Key = a.ID
	d.ID = a.ID
	d.Saved = ArticleFields{
		Title:        a.Title,
		Summary:      a.Summary,
		ImageURL:     a.ImageURL,
		Tags:         tags,
		ArticleURL:   a.ArticleURL,
		ReadTime:     a.ReadTime,
		DisplayOrder: a.DisplayOrder,
		IsActive:     a.IsActive,
	}
	d.Draft = cloneArticle(d.Saved)
}

func (d *ArticleDraft) IsNew() bool { return d.ID == "" }

// Apply edits the draft. Every tag must belong to the article enum; on
// error nothing changes.
func (d *ArticleDraft) Apply(e ArticleEdit) error {
	var tags []string
	if e.Tags != nil {
		tags = make([]string, 0, len(*e.Tags))
		for _, t := range *e.Tags {
			tag, err := content.ParseArticleTag(t)
			if err != nil {
				return err
			}
			if !slices.Contains(tags, string(tag)) {
				tags = append(tags, string(tag))
			}
		}
	}
	set(&d.Draft.Title, e.Title)
	set(&d.Draft.Summary, e.Summary)
	set(&d.Draft.ImageURL, e.ImageURL)
	if e.Tags != nil {
		d.Draft.Tags = tags
	}
	set(&d.Draft.ArticleURL, e.ArticleURL)
	set(&d.Draft.ReadTime, e.ReadTime)
	set(&d.Draft.DisplayOrder, e.DisplayOrder)
	set(&d.Draft.IsActive, e.IsActive)
	return nil
}

// ToggleTag selects tag when absent and deselects it when present.
func (d *ArticleDraft) ToggleTag(tag string) error {
	t, err := content.ParseArticleTag(tag)
	if err != nil {
		return err
	}
	if i := slices.Index(d.Draft.Tags, string(t)); i >= 0 {
		d.Draft.Tags = slices.Delete(slices.Clone(d.Draft.Tags), i, i+1)
		return nil
	}
	d.Draft.Tags = append(slices.Clone(d.Draft.Tags), string(t))
	return nil
}

func (d *ArticleDraft) HasChanges() bool {
	a, b := d.Draft, d.Saved
	return a.Title != b.Title ||
		a.Summary != b.Summary ||
		a.ImageURL != b.ImageURL ||
		!sameTags(a.Tags, b.Tags) ||
		a.ArticleURL != b.ArticleURL ||
		a.ReadTime != b.ReadTime ||
		a.DisplayOrder != b.DisplayOrder ||
		a.IsActive != b.IsActive
}

func (d *ArticleDraft) Validate() error {
	if strings.TrimSpace(d.Draft.Title) == "" {
		return apperr.Validation("title is required")
	}
	if len(d.Draft.Tags) == 0 {
		return apperr.Validation("select at least one tag")
	}
	return nil
}

func (d *ArticleDraft) CanPublish() bool {
	return d.HasChanges() && d.Validate() == nil
}

func (d *ArticleDraft) Publish(ctx context.Context, store content.ArticleStore) (content.Article, error) {
	if !d.HasChanges() {
		return content.Article{}, apperr.Validation("no changes to publish")
	}
	if err := d.Validate(); err != nil {
		return content.Article{}, err
	}

	var (
		saved content.Article
		err   error
	)
	if d.IsNew() {
		f := d.Draft
		saved, err = store.CreateArticle(ctx, content.ArticleInput{
			Title:        f.Title,
			Summary:      f.Summary,
			ImageURL:     f.ImageURL,
			Tags:         f.Tags,
			ArticleURL:   f.ArticleURL,
			ReadTime:     f.ReadTime,
			DisplayOrder: f.DisplayOrder,
			IsActive:     f.IsActive,
		})
	} else {
		saved, err = store.UpdateArticle(ctx, d.ID, d.patch())
	}
	if err != nil {
		return content.Article{}, err
	}
	d.Rebase(saved)
	return saved, nil
}

func (d *ArticleDraft) patch() content.ArticlePatch {
	a, b := d.Draft, d.Saved
	p := content.ArticlePatch{
		Title:      changed(a.Title, b.Title),
		Summary:    changed(a.Summary, b.Summary),
		ImageURL:   changed(a.ImageURL, b.ImageURL),
		ArticleURL: changed(a.ArticleURL, b.ArticleURL),
		ReadTime:   changed(a.ReadTime, b.ReadTime),
	}
	if !sameTags(a.Tags, b.Tags) {
		p.Tags = &a.Tags
	}
	if a.DisplayOrder != b.DisplayOrder {
		p.DisplayOrder = &a.DisplayOrder
	}
	if a.IsActive != b.IsActive {
		p.IsActive = &a.IsActive
	}
	return p
}

func (d *ArticleDraft) AttachImage(ctx context.Context, u *Uploader, f File) (string, error) {
	return attach(ctx, u, "articles", f, func(url string) { d.Draft.ImageURL = url })
}

// sameTags compares tag sets; selection order does not matter.
func sameTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func cloneArticle(f ArticleFields) ArticleFields {
	f.Tags = slices.Clone(f.Tags)
	return f
}
