package editor

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"portfolio/internal/content"
)

var sectionLabels = map[string]string{
	content.KeyHero:            "Hero Section",
	content.KeyAboutLegacy:     "About Section",
	content.KeyAboutMe:         "About Section",
	content.KeyBrands:          "Brand Carousel",
	content.KeyPillarsHeader:   "Strategic Pillars Header",
	content.KeyKnowledgeHeader: "Knowledge Hub Header",
	content.KeyContact:         "Contact Section",
	content.KeyFooter:          "Footer",
}

var titler = cases.Title(language.English)

// SectionLabel is the heading shown for a section in the admin hub.
func SectionLabel(key string) string {
	if l, ok := sectionLabels[key]; ok {
		return l
	}
	return titler.String(strings.ReplaceAll(key, "_", " "))
}

// Sections whose display reads metadata keys. Only these accept metadata
// edits.
var metadataSchemas = map[string][]string{
	content.KeyHero:            {"badge", "headline_accent", "secondary_cta"},
	content.KeyNavigation:      {"site_name", "nav_links"},
	content.KeyBrands:          {"label", "brands"},
	content.KeyPillarsHeader:   {"label"},
	content.KeyKnowledgeHeader: {"label"},
	content.KeyTechnicalSkills: {"skills"},
	content.KeyContact:         {"label"},
	content.KeyFooter:          {"site_name", "tagline", "owner", "links"},
}

func HasMetadataSchema(key string) bool {
	_, ok := metadataSchemas[key]
	return ok
}

// MetadataKeys lists the metadata keys the public page reads for key.
func MetadataKeys(key string) []string {
	return metadataSchemas[key]
}
