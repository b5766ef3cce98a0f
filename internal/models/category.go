package models

import (
	"time"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;unique" json:"name"`
	CreatedAt time.Time `json:"-"`
}

// DefaultCategories are seeded on first start.
var DefaultCategories = []string{"books", "movies", "restaurants", "products"}
