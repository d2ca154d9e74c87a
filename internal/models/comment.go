// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment is a reply on a published case. AuthorName follows the same
// publish-time snapshot semantics as Post.AuthorName.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	AuthorName string    `gorm:"not null" json:"author_name"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
