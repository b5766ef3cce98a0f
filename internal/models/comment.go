package models

import (
	"time"
)

type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	User            User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ReviewID        uint      `gorm:"not null;index" json:"review_id"`
	Review          Review    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id"` // nil for top-level comments
	Parent          *Comment  `gorm:"foreignKey:ParentCommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// CommentView is a comment as shown under a review, with its vote tallies.
type CommentView struct {
	ID              uint      `json:"id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	Author          string    `json:"author"`
	ParentCommentID *uint     `json:"parent_comment_id"`
	Upvotes         int64     `json:"upvotes"`
	Downvotes       int64     `json:"downvotes"`
	// UserVote is the requesting user's vote, only present for authenticated viewers who voted.
	UserVote *string `json:"user_vote,omitempty"`
}
