package models

import (
	"time"
)

// DefaultAvatarURL is assigned to every account at registration until the
// user uploads a profile image.
const DefaultAvatarURL = "https://i.ibb.co/wWXyqpt/default-avatar.png"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	ImgURL    string    `json:"imgURL" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
