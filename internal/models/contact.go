package models

import "gorm.io/gorm"

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=7,max=20"`
	Description string `json:"desc" gorm:"type:text" validate:"required,max=1000"`
	gorm.Model
}
