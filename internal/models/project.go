package models

import (
	"time"

	"gorm.io/datatypes"
)

type Project struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Title          string         `gorm:"size:500;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	ImageURL       string         `gorm:"size:2000" json:"image_url"`
	Category       string         `gorm:"size:64;index" json:"category"`
	Link           *string        `gorm:"size:2000" json:"link"`
	Metric         *string        `gorm:"size:64" json:"metric"`
	MetricLabel    *string        `gorm:"size:255" json:"metric_label"`
	HighlightsJSON datatypes.JSON `gorm:"column:highlights;type:json" json:"highlights"`
	TechStackJSON  datatypes.JSON `gorm:"column:tech_stack;type:json" json:"tech_stack"`
	Size           string         `gorm:"size:16;default:medium" json:"size"`
	DisplayOrder   int            `gorm:"index" json:"display_order"`
	IsActive       bool           `gorm:"index" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
