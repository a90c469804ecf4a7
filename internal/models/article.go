package models

import (
	"time"

	"gorm.io/datatypes"
)

type Article struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Title        string         `gorm:"size:500;not null" json:"title"`
	Summary      string         `gorm:"type:text" json:"summary"`
	ImageURL     string         `gorm:"size:2000" json:"image_url"`
	TagsJSON     datatypes.JSON `gorm:"column:tags;type:json" json:"tags"`
	ArticleURL   *string        `gorm:"size:2000" json:"article_url"`
	ReadTime     string         `gorm:"size:64" json:"read_time"`
	DisplayOrder int            `gorm:"index" json:"display_order"`
	IsActive     bool           `gorm:"index" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Article) TableName() string { return "articles" }
