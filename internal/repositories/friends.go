package repositories

import (
	"github.com/staynear-app/server/internal/models"
	"gorm.io/gorm"
)

// The friendship graph is kept symmetric: every friendship is the row pair
// (A,B) and (B,A). Both the direct-add and the request-accept paths go
// through CreateFriendEdges so the invariant is enforced in exactly one
// place, and the unique index on (user_id, friend_id) turns a lost race
// between two writers into a rollback instead of a duplicate edge.

// CreateFriendEdges inserts both directed rows of a friendship. Callers must
// pass a transaction handle so the pair is written atomically.
func CreateFriendEdges(tx *gorm.DB, userID, friendID uint) error {
	edges := []models.Friend{
		{UserID: userID, FriendID: friendID},
		{UserID: friendID, FriendID: userID},
	}
	return tx.Create(&edges).Error
}

// DeleteFriendEdges removes whichever directed edges exist between the two
// users and reports how many rows went away. Tolerates a half-broken pair
// where only one direction was present.
func DeleteFriendEdges(tx *gorm.DB, userID, friendID uint) (int64, error) {
	res := tx.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Delete(&models.Friend{})
	return res.RowsAffected, res.Error
}

// FriendshipExists reports whether an edge exists between the pair in either
// direction.
func FriendshipExists(db *gorm.DB, userID, friendID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Friend{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Count(&count).Error
	return count > 0, err
}

// PendingRequestExists checks the unordered pair for a pending friend
// request. A single query covers both directions, so a pending request from
// B to A also blocks a new request from A to B.
func PendingRequestExists(db *gorm.DB, userID, otherID uint) (bool, error) {
	var count int64
	err := db.Model(&models.FriendRequest{}).
		Where("((from_user = ? AND to_user = ?) OR (from_user = ? AND to_user = ?)) AND status = ?",
			userID, otherID, otherID, userID, models.FriendRequestPending).
		Count(&count).Error
	return count > 0, err
}

// FriendProfile is a friend's user profile joined with the edge id.
type FriendProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	ImgURL   string `json:"imgURL"`
	FriendID uint   `json:"friend_id"`
}

// ListFriendProfiles returns the profiles of all users one outgoing edge away
// from userID.
func ListFriendProfiles(db *gorm.DB, userID uint) ([]FriendProfile, error) {
	var friends []FriendProfile
	err := db.Table("friends").
		Select("users.id, users.username, users.email, users.img_url, friends.id AS friend_id").
		Joins("JOIN users ON users.id = friends.friend_id").
		Where("friends.user_id = ?", userID).
		Scan(&friends).Error
	return friends, err
}

// FriendPosition is a friend's profile with their current coordinates.
type FriendPosition struct {
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	ImgURL   string  `json:"imgURL"`
	Lat      float64 `json:"-"`
	Lng      float64 `json:"-"`
}

// ListFriendPositions returns every friend of userID who has a recorded
// position. Friends without one are omitted (inner join).
func ListFriendPositions(db *gorm.DB, userID uint) ([]FriendPosition, error) {
	var rows []FriendPosition
	err := db.Table("friends").
		Select("users.id AS user_id, users.username, users.img_url, positions.lat, positions.lng").
		Joins("JOIN users ON users.id = friends.friend_id").
		Joins("JOIN positions ON positions.user_id = friends.friend_id").
		Where("friends.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}

// FriendIDSet returns the ids of all users one outgoing edge away from
// userID, for annotating search results.
func FriendIDSet(db *gorm.DB, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := db.Model(&models.Friend{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
