package models

import (
	"strings"
	"time"
)

// Post represents a feed entry. Likes and comments are owned by the post.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Text        string    `gorm:"type:text;not null;default:''" json:"text"`
	Image       string    `json:"image,omitempty"`
	IsPromotion bool      `gorm:"not null;default:false" json:"isPromotion"`
	Shares      int       `gorm:"not null;default:0" json:"shares"`
	Likes       []Like    `gorm:"foreignKey:PostID" json:"-"`
	Comments    []Comment `gorm:"foreignKey:PostID" json:"-"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likeCount"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"commentCount"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool      `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasContent reports whether the post carries non-blank text or an image.
func HasContent(text, image string) bool {
	return strings.TrimSpace(text) != "" || image != ""
}

// Like is a membership row in a post's like-set.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is an append-only entry in a post's comment sequence.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	UserID    uint      `gorm:"not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
