package models

import (
	"time"

	"gorm.io/datatypes"
)

// PortfolioContent is one editable region of the public page. The typed
// columns cover what every section shares; anything section-specific lives in
// Metadata.
type PortfolioContent struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	SectionKey string         `gorm:"column:section_id;size:64;uniqueIndex" json:"section_id"`
	Headline   *string        `gorm:"size:500" json:"headline"`
	BodyText   *string        `gorm:"type:text" json:"body_text"`
	ImageURL   *string        `gorm:"size:2000" json:"image_url"`
	CTALink    *string        `gorm:"column:cta_link;size:2000" json:"cta_link"`
	CTAText    *string        `gorm:"column:cta_text;size:255" json:"cta_text"`
	Metadata   datatypes.JSON `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (PortfolioContent) TableName() string { return "portfolio_content" }
