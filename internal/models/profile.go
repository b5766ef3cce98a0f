package models

import (
	"time"
)

// UserProfile is a user with aggregated activity counts.
type UserProfile struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Bio           *string   `json:"bio"`
	CreatedAt     time.Time `json:"created_at"`
	ReviewsCount  int64     `json:"reviews_count"`
	CommentsCount int64     `json:"comments_count"`
}

type UserReview struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	Category  string    `json:"category"`
}

type UserComment struct {
	ID          uint      `json:"id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	ReviewTitle string    `json:"review_title"`
	ReviewID    uint      `json:"review_id"`
}
