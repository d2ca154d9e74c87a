package models

import "time"

// Post is a published clinical case: a text description plus one image.
//
// AuthorName is a snapshot of the author's username taken at publish time.
// It is intentionally denormalized and never re-joined against users, so a
// rendered feed shows the name the case was published under.
type Post struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	AuthorName  string `gorm:"not null" json:"author_name"`
	Description string `gorm:"type:text;not null" json:"description"`
	// Image holds the raw uploaded bytes. It is served through the image
	// endpoint rather than inlined in feed JSON.
	Image     []byte    `gorm:"type:bytea;not null" json:"-"`
	ImageURL  string    `gorm:"-" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
