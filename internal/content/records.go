package content

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"portfolio/internal/models"
)

// Section keys read by the public page.
const (
	KeyHero            = "hero"
	KeyAboutMe         = "about_me"
	KeyBrands          = "brands"
	KeyPillarsHeader   = "pillars_header"
	KeyKnowledgeHeader = "knowledge_header"
	KeyTechnicalSkills = "technical_skills"
	KeyNavigation      = "navigation"
	KeyContact         = "contact"
	KeyFooter          = "footer"
	// KeyAboutLegacy is kept in the store but nothing renders it.
	KeyAboutLegacy = "about"
)

// Section is one editable region of the page. Empty strings mean the field is
// absent and the renderer supplies its own default.
type Section struct {
	ID        string         `json:"id"`
	Key       string         `json:"sectionId"`
	Headline  string         `json:"headline"`
	BodyText  string         `json:"bodyText"`
	ImageURL  string         `json:"imageUrl"`
	CTALink   string         `json:"ctaLink"`
	CTAText   string         `json:"ctaText"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	Category     Category  `json:"category"`
	Link         string    `json:"link"`
	Metric       string    `json:"metric"`
	MetricLabel  string    `json:"metricLabel"`
	Highlights   []string  `json:"highlights"`
	TechStack    []string  `json:"techStack"`
	Size         Size      `json:"size"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Article struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	ImageURL     string     `json:"imageUrl"`
	Tags         []Category `json:"tags"`
	ArticleURL   string     `json:"articleUrl"`
	ReadTime     string     `json:"readTime"`
	DisplayOrder int        `json:"displayOrder"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func decodeStrings(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func encodeStrings(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func toSection(row models.PortfolioContent) Section {
	meta := row.Metadata
	if len(meta) == 0 {
		meta = datatypes.JSON("{}")
	}
	return Section{
		ID:        row.ID,
		Key:       row.SectionKey,
		Headline:  deref(row.Headline),
		BodyText:  deref(row.BodyText),
		ImageURL:  deref(row.ImageURL),
		CTALink:   deref(row.CTALink),
		CTAText:   deref(row.CTAText),
		Metadata:  meta,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toProject(row models.Project) Project {
	return Project{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		ImageURL:     row.ImageURL,
		Category:     Category(row.Category),
		Link:         deref(row.Link),
		Metric:       deref(row.Metric),
		MetricLabel:  deref(row.MetricLabel),
		Highlights:   decodeStrings(row.HighlightsJSON),
		TechStack:    decodeStrings(row.TechStackJSON),
		Size:         Size(row.Size),
		DisplayOrder: row.DisplayOrder,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toArticle(row models.Article) Article {
	raw := decodeStrings(row.TagsJSON)
	tags := make([]Category, 0, len(raw))
	for _, t := range raw {
		tags = append(tags, Category(t))
	}
	return Article{
		ID:           row.ID,
		Title:        row.Title,
		Summary:      row.Summary,
		ImageURL:     row.ImageURL,
		Tags:         tags,
		ArticleURL:   deref(row.ArticleURL),
		ReadTime:     row.ReadTime,
		DisplayOrder: row.DisplayOrder,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
