package display

import (
	"fmt"
	"html/template"

	"portfolio/internal/content"
	"portfolio/internal/richtext"
)

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func body(v, def string) template.HTML {
	if v == "" {
		return template.HTML(template.HTMLEscapeString(def))
	}
	if clean := richtext.Sanitize(v); clean != "" {
		return template.HTML(clean)
	}
	return template.HTML(template.HTMLEscapeString(def))
}

func header(s Sections, key, label, headline, text string) Header {
	sec, meta := s.Get(key)
	return Header{
		Label:    meta.String("label", label),
		Headline: or(sec.Headline, headline),
		Body:     body(sec.BodyText, text),
	}
}

func Navigation(s Sections) NavigationView {
	_, meta := s.Get(content.KeyNavigation)
	return NavigationView{
		SiteName: meta.String("site_name", DefaultSiteName),
		Links:    meta.Links("nav_links", defaultNavLinks()),
	}
}

func Hero(s Sections) HeroView {
	sec, meta := s.Get(content.KeyHero)
	cta := DefaultHeroCTA
	if sec.CTAText != "" {
		cta.Label = sec.CTAText
	}
	if sec.CTALink != "" {
		cta.Href = sec.CTALink
	}
	return HeroView{
		Badge:        meta.String("badge", DefaultHeroBadge),
		Headline:     or(sec.Headline, DefaultHeroHeadline),
		Accent:       meta.String("headline_accent", DefaultHeroAccent),
		Body:         body(sec.BodyText, DefaultHeroBody),
		CTA:          cta,
		SecondaryCTA: meta.Link("secondary_cta", DefaultHeroSecondaryCTA),
		Loading:      s.Loading(),
	}
}

func About(s Sections) AboutView {
	sec, _ := s.Get(content.KeyAboutMe)
	return AboutView{
		Headline: or(sec.Headline, DefaultAboutHeadline),
		Body:     body(sec.BodyText, DefaultAboutBody),
		ImageURL: or(sec.ImageURL, DefaultAboutImage),
		Loading:  s.Loading(),
	}
}

func Brands(s Sections) BrandsView {
	sec, meta := s.Get(content.KeyBrands)
	return BrandsView{
		Label:  meta.String("label", or(sec.Headline, DefaultBrandsLabel)),
		Brands: meta.Brands("brands", defaultBrands()),
	}
}

func TechnicalSkills(s Sections) SkillsView {
	sec, meta := s.Get(content.KeyTechnicalSkills)
	return SkillsView{
		Headline: or(sec.Headline, DefaultSkillsHeadline),
		Body:     body(sec.BodyText, DefaultSkillsBody),
		Skills:   meta.Skills("skills", defaultSkills()),
	}
}

func Contact(s Sections) ContactView {
	sec, _ := s.Get(content.KeyContact)
	return ContactView{
		Header:  header(s, content.KeyContact, DefaultContactLabel, DefaultContactHeadline, DefaultContactBody),
		CTAText: or(sec.CTAText, DefaultContactCTA),
	}
}

func Footer(s Sections, year int) FooterView {
	_, meta := s.Get(content.KeyFooter)
	owner := meta.String("owner", DefaultFooterOwner)
	return FooterView{
		SiteName:  meta.String("site_name", DefaultSiteName),
		Tagline:   meta.String("tagline", DefaultFooterTagline),
		Copyright: fmt.Sprintf("© %d %s. All rights reserved.", year, owner),
		Links:     meta.Links("links", defaultFooterLinks()),
	}
}
