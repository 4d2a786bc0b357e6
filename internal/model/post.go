package model

import "time"

type Post struct {
	ID       string `gorm:"primaryKey" json:"id"`
	AuthorID string `gorm:"index" json:"-"`
	Title    string `gorm:"not null" json:"title"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Body     string `json:"body"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
