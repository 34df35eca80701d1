package models

import (
	"time"
)

// MediaType values for Post.MediaType
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Post represents a single feed post published by a seller
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	SellerID  int64     `gorm:"not null;index;column:seller_id" json:"sellerId"`
	Content   string    `gorm:"type:text;not null;column:content" json:"content"`
	MediaURL  string    `gorm:"type:varchar(1024);not null;default:'';column:media_url" json:"mediaUrl,omitempty"`
	MediaType string    `gorm:"type:varchar(8);not null;default:'';column:media_type" json:"mediaType,omitempty"`
	Timestamp time.Time `gorm:"not null;column:created_at" json:"timestamp"`
	Likes     int64     `gorm:"not null;default:0;column:likes" json:"likes"`

	// Relationships
	Comments []Comment `gorm:"foreignKey:PostID;references:ID" json:"comments"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// HasMedia reports whether the post carries an image or video
func (p *Post) HasMedia() bool {
	return p.MediaURL != ""
}
