package models

import (
	"time"

	"gorm.io/gorm"
)

type Banner struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `gorm:"not null" json:"imageUrl"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}
