package repositories

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, usernames ...string) []models.User {
	t.Helper()
	users := make([]models.User, 0, len(usernames))
	for _, name := range usernames {
		u := models.User{
			Username: name,
			Email:    name + "@example.com",
			Password: "hash",
			ImgURL:   models.DefaultAvatarURL,
		}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}

func TestCreateFriendEdgesIsSymmetric(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "alice", "bob")

	require.NoError(t, CreateFriendEdges(db, users[0].ID, users[1].ID))

	var edges []models.Friend
	require.NoError(t, db.Order("user_id").Find(&edges).Error)
	require.Len(t, edges, 2)
	assert.Equal(t, users[0].ID, edges[0].UserID)
	assert.Equal(t, users[1].ID, edges[0].FriendID)
	assert.Equal(t, users[1].ID, edges[1].UserID)
	assert.Equal(t, users[0].ID, edges[1].FriendID)
}

func TestCreateFriendEdgesRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "alice", "bob")

	require.NoError(t, CreateFriendEdges(db, users[0].ID, users[1].ID))

	// the unique index on the directed pair rejects a second write from
	// either side, and the failed pair insert leaves nothing behind
	assert.Error(t, db.Transaction(func(tx *gorm.DB) error {
		return CreateFriendEdges(tx, users[0].ID, users[1].ID)
	}))
	assert.Error(t, db.Transaction(func(tx *gorm.DB) error {
		return CreateFriendEdges(tx, users[1].ID, users[0].ID)
	}))

	var count int64
	require.NoError(t, db.Model(&models.Friend{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeleteFriendEdges(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "alice", "bob")

	require.NoError(t, CreateFriendEdges(db, users[0].ID, users[1].ID))

	deleted, err := DeleteFriendEdges(db, users[1].ID, users[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	deleted, err = DeleteFriendEdges(db, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)
}

func TestDeleteFriendEdgesSingleDirection(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "alice", "bob")

	require.NoError(t, db.Create(&models.Friend{UserID: users[0].ID, FriendID: users[1].ID}).Error)

	deleted, err := DeleteFriendEdges(db, users[1].ID, users[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestFriendshipExistsEitherDirection(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "alice", "bob", "carol")

	require.NoError(t, CreateFriendEdges(db, users[0].ID, users[1].ID))

	for _, pair := range [][2]uint{
		{users[0].ID, users[1].ID},
		{users[1].ID, users[0].ID},
	} {
		exists, err := FriendshipExists(db, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, exists)
	}

	exists, err := FriendshipExists(db, users[0].ID, users[2].ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPendingRequestExistsUnorderedPair(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "alice", "bob")

	require.NoError(t, db.Create(&models.FriendRequest{
		FromUser: users[0].ID,
		ToUser:   users[1].ID,
		Status:   models.FriendRequestPending,
	}).Error)

	// both orderings of the pair see the pending request
	for _, pair := range [][2]uint{
		{users[0].ID, users[1].ID},
		{users[1].ID, users[0].ID},
	} {
		pending, err := PendingRequestExists(db, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, pending)
	}

	// terminal states do not block
	require.NoError(t, db.Model(&models.FriendRequest{}).
		Where("from_user = ?", users[0].ID).
		Update("status", models.FriendRequestRejected).Error)
	pending, err := PendingRequestExists(db, users[0].ID, users[1].ID)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestListFriendPositionsInnerJoin(t *testing.T) {
	db := newTestDB(t)
	users := seedUsers(t, db, "alice", "bob", "carol")

	require.NoError(t, CreateFriendEdges(db, users[0].ID, users[1].ID))
	require.NoError(t, CreateFriendEdges(db, users[0].ID, users[2].ID))
	require.NoError(t, db.Create(&models.Position{UserID: users[1].ID, Lat: 48.1, Lng: 11.5}).Error)

	rows, err := ListFriendPositions(db, users[0].ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, users[1].ID, rows[0].UserID)
	assert.Equal(t, "bob", rows[0].Username)
	assert.Equal(t, 48.1, rows[0].Lat)
	assert.Equal(t, 11.5, rows[0].Lng)
}
