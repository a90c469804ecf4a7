package editor

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"portfolio/internal/apperr"
	"portfolio/internal/content"
)

type ProjectFields struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"imageUrl"`
	Category     string   `json:"category"`
	Link         string   `json:"link"`
	Metric       string   `json:"metric"`
	MetricLabel  string   `json:"metricLabel"`
	Highlights   []string `json:"highlights"`
	TechStack    []string `json:"techStack"`
	Size         string   `json:"size"`
	DisplayOrder int      `json:"displayOrder"`
	IsActive     bool     `json:"isActive"`
}

// ProjectEdit changes the non-nil fields of a draft. Category and Size must
// be enum values.
type ProjectEdit struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"imageUrl"`
	Category     *string   `json:"category"`
	Link         *string   `json:"link"`
	Metric       *string   `json:"metric"`
	MetricLabel  *string   `json:"metricLabel"`
	Highlights   *[]string `json:"highlights"`
	TechStack    *[]string `json:"techStack"`
	Size         *string   `json:"size"`
	DisplayOrder *int      `json:"displayOrder"`
	IsActive     *bool     `json:"isActive"`
}

type ProjectDraft struct {
	// Key identifies the draft in a workspace: the record id, or a
	// generated key until a new project is first published.
	Key   string        `json:"key"`
	ID    string        `json:"id"`
	Saved ProjectFields `json:"saved"`
	Draft ProjectFields `json:"draft"`
}

// NewProjectDraft starts a draft for a project that does not exist yet.
func NewProjectDraft() *ProjectDraft {
	blank := ProjectFields{
		Category:   string(content.DefaultProjectCategory),
		Size:       string(content.SizeMedium),
		IsActive:   true,
		Highlights: []string{},
		TechStack:  []string{},
	}
	return &ProjectDraft{Key: "new-" + uuid.NewString(), Saved: blank, Draft: cloneProject(blank)}
}

func ProjectDraftFrom(p content.Project) *ProjectDraft {
	d := &ProjectDraft{}
	d.Rebase(p)
	return d
}

func (d *ProjectDraft) Rebase(p content.Project) {
	d.Key = p.ID
	d.ID = p.ID
	d.Saved = ProjectFields{
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Category:     string(p.Category),
		Link:         p.Link,
		Metric:       p.Metric,
		MetricLabel:  p.MetricLabel,
		Highlights:   slices.Clone(p.Highlights),
		TechStack:    slices.Clone(p.TechStack),
		Size:         string(p.Size),
		DisplayOrder: p.DisplayOrder,
		IsActive:     p.IsActive,
	}
	d.Draft = cloneProject(d.Saved)
}

func (d *ProjectDraft) IsNew() bool { return d.ID == "" }

// Apply edits the draft. Enum fields are validated first; on error nothing
// changes.
func (d *ProjectDraft) Apply(e ProjectEdit) error {
	if e.Category != nil {
		if _, err := content.ParseCategory(*e.Category); err != nil {
			return err
		}
	}
	var size content.Size
	if e.Size != nil {
		s, err := content.ParseSize(*e.Size)
		if err != nil {
			return err
		}
		size = s
	}
	set(&d.Draft.Title, e.Title)
	set(&d.Draft.Description, e.Description)
	set(&d.Draft.ImageURL, e.ImageURL)
	set(&d.Draft.Category, e.Category)
	set(&d.Draft.Link, e.Link)
	set(&d.Draft.Metric, e.Metric)
	set(&d.Draft.MetricLabel, e.MetricLabel)
	if e.Highlights != nil {
		d.Draft.Highlights = slices.Clone(*e.Highlights)
	}
	if e.TechStack != nil {
		d.Draft.TechStack = slices.Clone(*e.TechStack)
	}
	if e.Size != nil {
		d.Draft.Size = string(size)
	}
	set(&d.Draft.DisplayOrder, e.DisplayOrder)
	set(&d.Draft.IsActive, e.IsActive)
	return nil
}

func (d *ProjectDraft) SetCategory(c string) error {
	return d.Apply(ProjectEdit{Category: &c})
}

func (d *ProjectDraft) HasChanges() bool {
	a, b := d.Draft, d.Saved
	return a.Title != b.Title ||
		a.Description != b.Description ||
		a.ImageURL != b.ImageURL ||
		a.Category != b.Category ||
		a.Link != b.Link ||
		a.Metric != b.Metric ||
		a.MetricLabel != b.MetricLabel ||
		!slices.Equal(a.Highlights, b.Highlights) ||
		!slices.Equal(a.TechStack, b.TechStack) ||
		a.Size != b.Size ||
		a.DisplayOrder != b.DisplayOrder ||
		a.IsActive != b.IsActive
}

func (d *ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Draft.Title) == "" {
		return apperr.Validation("title is required")
	}
	if _, err := content.ParseCategory(d.Draft.Category); err != nil {
		return err
	}
	if _, err := content.ParseSize(d.Draft.Size); err != nil {
		return err
	}
	return nil
}

func (d *ProjectDraft) CanPublish() bool {
	return d.HasChanges() && d.Validate() == nil
}

// Publish creates or updates the project. The draft survives a failure.
func (d *ProjectDraft) Publish(ctx context.Context, store content.ProjectStore) (content.Project, error) {
	if !d.HasChanges() {
		return content.Project{}, apperr.Validation("no changes to publish")
	}
	if err := d.Validate(); err != nil {
		return content.Project{}, err
	}

	var (
		saved content.Project
		err   error
	)
	if d.IsNew() {
		f := d.Draft
		saved, err = store.CreateProject(ctx, content.ProjectInput{
			Title:        f.Title,
			Description:  f.Description,
			ImageURL:     f.ImageURL,
			Category:     f.Category,
			Link:         f.Link,
			Metric:       f.Metric,
			MetricLabel:  f.MetricLabel,
			Highlights:   f.Highlights,
			TechStack:    f.TechStack,
			Size:         f.Size,
			DisplayOrder: f.DisplayOrder,
			IsActive:     f.IsActive,
		})
	} else {
		saved, err = store.UpdateProject(ctx, d.ID, d.patch())
	}
	if err != nil {
		return content.Project{}, err
	}
	d.Rebase(saved)
	return saved, nil
}

func (d *ProjectDraft) patch() content.ProjectPatch {
	a, b := d.Draft, d.Saved
	p := content.ProjectPatch{
		Title:       changed(a.Title, b.Title),
		Description: changed(a.Description, b.Description),
		ImageURL:    changed(a.ImageURL, b.ImageURL),
		Category:    changed(a.Category, b.Category),
		Link:        changed(a.Link, b.Link),
		Metric:      changed(a.Metric, b.Metric),
		MetricLabel: changed(a.MetricLabel, b.MetricLabel),
		Size:        changed(a.Size, b.Size),
	}
	if !slices.Equal(a.Highlights, b.Highlights) {
		p.Highlights = &a.Highlights
	}
	if !slices.Equal(a.TechStack, b.TechStack) {
		p.TechStack = &a.TechStack
	}
	if a.DisplayOrder != b.DisplayOrder {
		p.DisplayOrder = &a.DisplayOrder
	}
	if a.IsActive != b.IsActive {
		p.IsActive = &a.IsActive
	}
	return p
}

func (d *ProjectDraft) AttachImage(ctx context.Context, u *Uploader, f File) (string, error) {
	return attach(ctx, u, "projects", f, func(url string) { d.Draft.ImageURL = url })
}

func cloneProject(f ProjectFields) ProjectFields {
	f.Highlights = slices.Clone(f.Highlights)
	f.TechStack = slices.Clone(f.TechStack)
	return f
}
