package models

import "gorm.io/gorm"

// Blog represents a published blog post, addressed by its slug.
type Blog struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug       string `json:"slug" gorm:"uniqueIndex;type:varchar(120)" validate:"required,min=3,max=120"`
	Title      string `json:"title" validate:"required,min=3,max=150"`
	Excerpt    string `json:"excerpt" validate:"omitempty,max=300"`
	Content    string `json:"content" gorm:"type:text" validate:"required"`
	CoverImage string `json:"coverImage" validate:"omitempty,url"`
	Category   string `json:"category" validate:"omitempty,max=60"`
	Author     string `json:"author" validate:"omitempty,max=100"`
	gorm.Model
}
