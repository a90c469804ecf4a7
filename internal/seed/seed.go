// Package seed loads initial portfolio content from a YAML file.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"portfolio/internal/apperr"
	"portfolio/internal/content"
)

type Section struct {
	Key      string         `yaml:"key"`
	Headline string         `yaml:"headline"`
	BodyText string         `yaml:"body_text"`
	ImageURL string         `yaml:"image_url"`
	CTALink  string         `yaml:"cta_link"`
	CTAText  string         `yaml:"cta_text"`
	Metadata map[string]any `yaml:"metadata"`
}

type Project struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	ImageURL     string   `yaml:"image_url"`
	Category     string   `yaml:"category"`
	Link         string   `yaml:"link"`
	Metric       string   `yaml:"metric"`
	MetricLabel  string   `yaml:"metric_label"`
	Highlights   []string `yaml:"highlights"`
	TechStack    []string `yaml:"tech_stack"`
	Size         string   `yaml:"size"`
	DisplayOrder int      `yaml:"display_order"`
	// Active defaults to true when omitted.
	Active *bool `yaml:"is_active"`
}

type Article struct {
	Title        string   `yaml:"title"`
	Summary      string   `yaml:"summary"`
	ImageURL     string   `yaml:"image_url"`
	Tags         []string `yaml:"tags"`
	ArticleURL   string   `yaml:"article_url"`
	ReadTime     string   `yaml:"read_time"`
	DisplayOrder int      `yaml:"display_order"`
	Active       *bool    `yaml:"is_active"`
}

type File struct {
	Sections []Section `yaml:"sections"`
	Projects []Project `yaml:"projects"`
	Articles []Article `yaml:"articles"`
}

type Result struct {
	SectionsCreated int
	SectionsUpdated int
	Projects        int
	Articles        int
	Skipped         int
}

func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// Apply writes f through the repository. Sections are upserted by key;
// projects and articles whose title already exists are skipped, so a seed
// can be re-run.
func Apply(ctx context.Context, store content.Store, f File) (Result, error) {
	log := logrus.WithField("component", "seed")
	var res Result

	for _, s := range f.Sections {
		meta, err := encodeMetadata(s.Metadata)
		if err != nil {
			return res, fmt.Errorf("section %s: %w", s.Key, err)
		}
		existing, err := store.GetSection(ctx, s.Key)
		switch {
		case apperr.Is(err, apperr.CodeNotFound):
			if _, err := store.CreateSection(ctx, content.SectionInput{
				Key: s.Key, Headline: s.Headline, BodyText: s.BodyText, ImageURL: s.ImageURL,
				CTALink: s.CTALink, CTAText: s.CTAText, Metadata: meta,
			}); err != nil {
				return res, fmt.Errorf("section %s: %w", s.Key, err)
			}
			res.SectionsCreated++
		case err != nil:
			return res, fmt.Errorf("section %s: %w", s.Key, err)
		default:
			if _, err := store.UpdateSection(ctx, existing.ID, content.SectionPatch{
				Headline: &s.Headline, BodyText: &s.BodyText, ImageURL: &s.ImageURL,
				CTALink: &s.CTALink, CTAText: &s.CTAText, Metadata: meta,
			}); err != nil {
				return res, fmt.Errorf("section %s: %w", s.Key, err)
			}
			res.SectionsUpdated++
		}
	}

	projects, err := store.ListProjects(ctx, false)
	if err != nil {
		return res, err
	}
	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		seen[p.Title] = true
	}
	for _, p := range f.Projects {
		if seen[p.Title] {
			res.Skipped++
			continue
		}
		if _, err := store.CreateProject(ctx, content.ProjectInput{
			Title: p.Title, Description: p.Description, ImageURL: p.ImageURL, Category: p.Category,
			Link: p.Link, Metric: p.Metric, MetricLabel: p.MetricLabel, Highlights: p.Highlights,
			TechStack: p.TechStack, Size: p.Size, DisplayOrder: p.DisplayOrder, IsActive: active(p.Active),
		}); err != nil {
			return res, fmt.Errorf("project %q: %w", p.Title, err)
		}
		seen[p.Title] = true
		res.Projects++
	}

	articles, err := store.ListArticles(ctx, false)
	if err != nil {
		return res, err
	}
	seen = make(map[string]bool, len(articles))
	for _, a := range articles {
		seen[a.Title] = true
	}
	for _, a := range f.Articles {
		if seen[a.Title] {
			res.Skipped++
			continue
		}
		if _, err := store.CreateArticle(ctx, content.ArticleInput{
			Title: a.Title, Summary: a.Summary, ImageURL: a.ImageURL, Tags: a.Tags,
			ArticleURL: a.ArticleURL, ReadTime: a.ReadTime, DisplayOrder: a.DisplayOrder, IsActive: active(a.Active),
		}); err != nil {
			return res, fmt.Errorf("article %q: %w", a.Title, err)
		}
		seen[a.Title] = true
		res.Articles++
	}

	log.WithFields(logrus.Fields{
		"sections_created": res.SectionsCreated,
		"sections_updated": res.SectionsUpdated,
		"projects":         res.Projects,
		"articles":         res.Articles,
		"skipped":          res.Skipped,
	}).Info("seed applied")
	return res, nil
}

func active(v *bool) bool {
	return v == nil || *v
}

func encodeMetadata(m map[string]any) (datatypes.JSON, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
