package models

import (
	"time"
)

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest mediates edge creation: pending transitions exactly once to
// accepted or rejected, and terminal rows are never touched again.
type FriendRequest struct {
	ID        uint                `json:"id" gorm:"primaryKey"`
	FromUser  uint                `json:"from_user" gorm:"not null;index"`
	ToUser    uint                `json:"to_user" gorm:"not null;index"`
	CreatedAt time.Time           `json:"created_at" gorm:"autoCreateTime"`
	Status    FriendRequestStatus `json:"status" gorm:"not null;default:pending"`
}
