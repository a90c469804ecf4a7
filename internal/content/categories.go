package content

import (
	"strings"

	"portfolio/internal/apperr"
)

// Category is a content category shared by project categories and article tags.
type Category string

const (
	CategoryMetabolicHealth   Category = "Metabolic Health"
	CategoryEducationStrategy Category = "Education Strategy"
	CategorySEOGrowth         Category = "SEO & Growth"
	CategoryCompliance        Category = "Compliance"
	CategoryAudienceRevenue   Category = "Audience & Revenue Growth"
	CategoryStrategicComms    Category = "Strategic Communications"
	CategoryProductStrategyAI Category = "Product Strategy & AI Workflows"
	DefaultProjectCategory             = CategoryAudienceRevenue
)

// ArticleCategories are the tags an article may carry.
var ArticleCategories = []Category{
	CategoryMetabolicHealth,
	CategoryEducationStrategy,
	CategorySEOGrowth,
	CategoryCompliance,
}

// ProjectCategories are the categories a project may belong to.
var ProjectCategories = []Category{
	CategoryMetabolicHealth,
	CategoryEducationStrategy,
	CategorySEOGrowth,
	CategoryCompliance,
	CategoryAudienceRevenue,
	CategoryStrategicComms,
	CategoryProductStrategyAI,
}

// Size is the layout hint of a project card.
type Size string

const (
	SizeLarge  Size = "large"
	SizeMedium Size = "medium"
	SizeSmall  Size = "small"
)

var CardSizes = []Size{SizeLarge, SizeMedium, SizeSmall}

func ParseCategory(s string) (Category, error) {
	for _, c := range ProjectCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", apperr.Validation("invalid project category %q", s)
}

func ParseArticleTag(s string) (Category, error) {
	for _, c := range ArticleCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", apperr.Validation("invalid article tag %q", s)
}

// ParseSize is case-insensitive; the stored form is lower case.
func ParseSize(s string) (Size, error) {
	v := Size(strings.ToLower(strings.TrimSpace(s)))
	for _, size := range CardSizes {
		if size == v {
			return size, nil
		}
	}
	return "", apperr.Validation("invalid card size %q", s)
}

// ValidSize reports whether s is a known card size without allocating an error.
func ValidSize(s string) bool {
	_, err := ParseSize(s)
	return err == nil
}
