package content

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"portfolio/internal/apperr"
)

const DefaultReadTime = "5 min read"

type SectionInput struct {
	Key      string         `json:"sectionId"`
	Headline string         `json:"headline"`
	BodyText string         `json:"bodyText"`
	ImageURL string         `json:"imageUrl"`
	CTALink  string         `json:"ctaLink"`
	CTAText  string         `json:"ctaText"`
	Metadata datatypes.JSON `json:"metadata"`
}

// SectionPatch changes only the non-nil fields. A pointer to "" clears the field.
type SectionPatch struct {
	Headline *string        `json:"headline"`
	BodyText *string        `json:"bodyText"`
	ImageURL *string        `json:"imageUrl"`
	CTALink  *string        `json:"ctaLink"`
	CTAText  *string        `json:"ctaText"`
	Metadata datatypes.JSON `json:"metadata"`
}

type ProjectInput struct {
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

type ProjectPatch struct {
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

type ArticleInput struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	ImageURL     string   `json:"imageUrl"`
	Tags         []string `json:"tags"`
	ArticleURL   string   `json:"articleUrl"`
	ReadTime     string   `json:"readTime"`
	DisplayOrder int      `json:"displayOrder"`
	IsActive     bool     `json:"isActive"`
}

type ArticlePatch struct {
	Title        *string   `json:"title"`
	Summary      *string   `json:"summary"`
	ImageURL     *string   `json:"imageUrl"`
	Tags         *[]string `json:"tags"`
	ArticleURL   *string   `json:"articleUrl"`
	ReadTime     *string   `json:"readTime"`
	DisplayOrder *int      `json:"displayOrder"`
	IsActive     *bool     `json:"isActive"`
}

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title is required")
	}
	return nil
}

// ValidateMetadata accepts an empty bag or a JSON object. Arrays, scalars and
// malformed JSON are rejected.
func ValidateMetadata(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return apperr.Validation("metadata must be a JSON object")
	}
	return nil
}

// ParseArticleTags validates every tag and drops duplicates, keeping the
// first occurrence. At least one tag is required.
func ParseArticleTags(raw []string) ([]Category, error) {
	seen := make(map[Category]bool, len(raw))
	out := make([]Category, 0, len(raw))
	for _, r := range raw {
		tag, err := ParseArticleTag(r)
		if err != nil {
			return nil, err
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil, apperr.Validation("at least one tag is required")
	}
	return out, nil
}

func tagStrings(tags []Category) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (in SectionInput) validate() error {
	if strings.TrimSpace(in.Key) == "" {
		return apperr.Validation("section key is required")
	}
	return ValidateMetadata(in.Metadata)
}

func (in *ProjectInput) normalize() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	if in.Category == "" {
		in.Category = string(DefaultProjectCategory)
	}
	if _, err := ParseCategory(in.Category); err != nil {
		return err
	}
	if in.Size == "" {
		in.Size = string(SizeMedium)
	}
	size, err := ParseSize(in.Size)
	if err != nil {
		return err
	}
	in.Size = string(size)
	in.Highlights = cleanList(in.Highlights)
	in.TechStack = cleanList(in.TechStack)
	return nil
}

func (in *ArticleInput) normalize() ([]Category, error) {
	if err := requireTitle(in.Title); err != nil {
		return nil, err
	}
	tags, err := ParseArticleTags(in.Tags)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ReadTime) == "" {
		in.ReadTime = DefaultReadTime
	}
	return tags, nil
}

func (p SectionPatch) updates() (map[string]any, error) {
	u := map[string]any{}
	setNullable(u, "headline", p.Headline)
	setNullable(u, "body_text", p.BodyText)
	setNullable(u, "image_url", p.ImageURL)
	setNullable(u, "cta_link", p.CTALink)
	setNullable(u, "cta_text", p.CTAText)
	if p.Metadata != nil {
		if err := ValidateMetadata(p.Metadata); err != nil {
			return nil, err
		}
		meta := p.Metadata
		if len(meta) == 0 {
			meta = datatypes.JSON("{}")
		}
		u["metadata"] = meta
	}
	return u, nil
}

func (p ProjectPatch) updates() (map[string]any, error) {
	u := map[string]any{}
	if p.Title != nil {
		if err := requireTitle(*p.Title); err != nil {
			return nil, err
		}
		u["title"] = *p.Title
	}
	if p.Description != nil {
		u["description"] = *p.Description
	}
	if p.ImageURL != nil {
		u["image_url"] = *p.ImageURL
	}
	if p.Category != nil {
		c, err := ParseCategory(*p.Category)
		if err != nil {
			return nil, err
		}
		u["category"] = string(c)
	}
	setNullable(u, "link", p.Link)
	setNullable(u, "metric", p.Metric)
	setNullable(u, "metric_label", p.MetricLabel)
	if p.Highlights != nil {
		u["highlights"] = encodeStrings(cleanList(*p.Highlights))
	}
	if p.TechStack != nil {
		u["tech_stack"] = encodeStrings(cleanList(*p.TechStack))
	}
	if p.Size != nil {
		s, err := ParseSize(*p.Size)
		if err != nil {
			return nil, err
		}
		u["size"] = string(s)
	}
	if p.DisplayOrder != nil {
		u["display_order"] = *p.DisplayOrder
	}
	if p.IsActive != nil {
		u["is_active"] = *p.IsActive
	}
	return u, nil
}

func (p ArticlePatch) updates() (map[string]any, error) {
	u := map[string]any{}
	if p.Title != nil {
		if err := requireTitle(*p.Title); err != nil {
			return nil, err
		}
		u["title"] = *p.Title
	}
	if p.Summary != nil {
		u["summary"] = *p.Summary
	}
	if p.ImageURL != nil {
		u["image_url"] = *p.ImageURL
	}
	if p.Tags != nil {
		tags, err := ParseArticleTags(*p.Tags)
		if err != nil {
			return nil, err
		}
		u["tags"] = encodeStrings(tagStrings(tags))
	}
	setNullable(u, "article_url", p.ArticleURL)
	if p.ReadTime != nil {
		rt := *p.ReadTime
		if strings.TrimSpace(rt) == "" {
			rt = DefaultReadTime
		}
		u["read_time"] = rt
	}
	if p.DisplayOrder != nil {
		u["display_order"] = *p.DisplayOrder
	}
	if p.IsActive != nil {
		u["is_active"] = *p.IsActive
	}
	return u, nil
}

func setNullable(u map[string]any, column string, v *string) {
	if v == nil {
		return
	}
	u[column] = nullable(*v)
}
