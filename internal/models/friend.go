package models

// Friend is one direction of a friendship. A friendship between A and B is
// always stored as the two rows (A,B) and (B,A); the unique index on the
// directed pair rejects duplicate edges even when two requests race.
type Friend struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user" gorm:"not null;uniqueIndex:idx_friend_edge"`
	FriendID uint `json:"friend" gorm:"not null;uniqueIndex:idx_friend_edge"`
}
