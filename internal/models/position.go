package models

import (
	"time"
)

// Position holds a user's current coordinates. One row per user, overwritten
// in place on every update; no history is kept.
type Position struct {
	UserID    uint      `json:"user" gorm:"primaryKey;autoIncrement:false"`
	Lat       float64   `json:"lat" gorm:"not null"`
	Lng       float64   `json:"lng" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
