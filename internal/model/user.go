package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	DisplayName  string `gorm:"not null" json:"displayName"`
	AvatarURL    string `json:"avatarURL"`
	Verified     bool   `gorm:"default:false" json:"verified"`

	CreatedAt time.Time `json:"createdAt"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"-"`
}
