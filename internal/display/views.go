// Package display turns resolved content into the view models rendered by
// the public page. Every rendered field has a literal default, so a missing
// section row or an unloaded cache still yields a complete page.
package display

import (
	"html/template"

	"portfolio/internal/content"
	"portfolio/internal/livecache"
)

type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Brand struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

type Skill struct {
	Name  string `json:"name"`
	Tools string `json:"tools"`
	Icon  string `json:"icon"`
}

type NavigationView struct {
	SiteName string `json:"siteName"`
	Links    []Link `json:"links"`
}

type HeroView struct {
	Badge        string        `json:"badge"`
	Headline     string        `json:"headline"`
	Accent       string        `json:"accent"`
	Body         template.HTML `json:"body"`
	CTA          Link          `json:"cta"`
	SecondaryCTA Link          `json:"secondaryCta"`
	Loading      bool          `json:"loading"`
}

type AboutView struct {
	Headline string        `json:"headline"`
	Body     template.HTML `json:"body"`
	ImageURL string        `json:"imageUrl"`
	Loading  bool          `json:"loading"`
}

type BrandsView struct {
	Label  string  `json:"label"`
	Brands []Brand `json:"brands"`
}

type Header struct {
	Label    string        `json:"label"`
	Headline string        `json:"headline"`
	Body     template.HTML `json:"body"`
}

type ProjectCard struct {
	content.Project
	Layout content.Size `json:"layout"`
}

type PillarsView struct {
	Header
	Cards   []ProjectCard `json:"cards"`
	Loading bool          `json:"loading"`
	// Hidden is set once loaded with no active project; the section is not rendered.
	Hidden bool `json:"hidden"`
}

type Topic struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type ArticleCard struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	ImageURL   string   `json:"imageUrl"`
	Tags       []string `json:"tags"`
	ArticleURL string   `json:"articleUrl"`
	ReadTime   string   `json:"readTime"`
}

type KnowledgeView struct {
	Header
	Topics   []Topic       `json:"topics"`
	Articles []ArticleCard `json:"articles"`
	Empty    string        `json:"empty,omitempty"`
	Loading  bool          `json:"loading"`
}

type SkillsView struct {
	Headline string        `json:"headline"`
	Body     template.HTML `json:"body"`
	Skills   []Skill       `json:"skills"`
}

type ContactView struct {
	Header
	CTAText string `json:"ctaText"`
}

type FooterView struct {
	SiteName  string `json:"siteName"`
	Tagline   string `json:"tagline"`
	Copyright string `json:"copyright"`
	Links     []Link `json:"links"`
}

type Page struct {
	Navigation NavigationView `json:"navigation"`
	Hero       HeroView       `json:"hero"`
	About      AboutView      `json:"about"`
	Brands     BrandsView     `json:"brands"`
	Pillars    PillarsView    `json:"pillars"`
	Knowledge  KnowledgeView  `json:"knowledge"`
	Skills     SkillsView     `json:"skills"`
	Contact    ContactView    `json:"contact"`
	Footer     FooterView     `json:"footer"`
	Loading    bool           `json:"loading"`
}

// Sections is a snapshot of the section cache as seen by the builders.
type Sections struct {
	list    []content.Section
	loading bool
}

// NewSections wraps a cache read; ok false means no data yet.
func NewSections(list []content.Section, ok bool) Sections {
	return Sections{list: list, loading: !ok}
}

func (s Sections) Loading() bool { return s.loading }

// Get returns the section stored under key and its parsed metadata. A miss
// yields a zero section and empty metadata.
func (s Sections) Get(key string) (content.Section, Meta) {
	sec, ok := livecache.FindSection(s.list, key)
	if !ok {
		return content.Section{}, Meta{}
	}
	return sec, ParseMeta(sec.Metadata)
}
