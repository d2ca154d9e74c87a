// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered clinician account.
//
// Users are append-only: once registered the record is never updated or
// deleted, so there is no soft-delete column here.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
