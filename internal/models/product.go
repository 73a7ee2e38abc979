package models

import "gorm.io/gorm"

// Product represents a catalog item in the store.
type Product struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug         string  `json:"slug" gorm:"uniqueIndex;type:varchar(120)" validate:"required,min=3,max=120"`
	Title        string  `json:"title" validate:"required,min=3,max=100"`
	Description  string  `json:"description" validate:"omitempty,max=500"`
	Image        string  `json:"img" validate:"omitempty,url"`
	Category     string  `json:"category" validate:"omitempty,max=60"`
	Size         string  `json:"size" validate:"omitempty,max=10"`
	Color        string  `json:"color" validate:"omitempty,max=30"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	AvailableQty int     `json:"availableQty" validate:"gte=0"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
