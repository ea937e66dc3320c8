package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/api/middleware"
	"github.com/staynear-app/server/internal/models"
	"github.com/staynear-app/server/internal/repositories"
	"github.com/staynear-app/server/internal/utils"
)

var errNotFriends = errors.New("no friendship between the pair")

// ListFriends returns the caller's friends with full profile data and the
// edge id.
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	friends, err := repositories.ListFriendProfiles(h.DB, current.ID)
	if err != nil {
		logrus.WithError(err).Error("friends: list failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusOK, friends)
}

// ListAllFriends returns the caller's friends as minimal profiles.
func (h *Handler) ListAllFriends(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	friends, err := repositories.ListFriendProfiles(h.DB, current.ID)
	if err != nil {
		logrus.WithError(err).Error("friends: list failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	type profile struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		ImgURL   string `json:"imgURL"`
	}
	results := make([]profile, 0, len(friends))
	for _, f := range friends {
		results = append(results, profile{ID: f.ID, Username: f.Username, ImgURL: f.ImgURL})
	}

	utils.JSON(w, http.StatusOK, results)
}

// AddFriend godoc
// @Summary Add a friend directly
// @Description Creates both directed edges of the friendship atomically.
// @Tags Friends
// @Produce json
// @Param id path int true "User id to befriend"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /friends/add/{id} [post]
func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	friendID, ok := pathID(w, r)
	if !ok {
		return
	}

	if current.ID == friendID {
		utils.Error(w, http.StatusBadRequest, "You cannot add yourself as a friend")
		return
	}

	var target models.User
	if err := h.DB.First(&target, friendID).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	exists, err := repositories.FriendshipExists(h.DB, current.ID, friendID)
	if err != nil {
		logrus.WithError(err).Error("add friend: edge lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		utils.Error(w, http.StatusConflict, "Already friends")
		return
	}

	pending, err := repositories.PendingRequestExists(h.DB, current.ID, friendID)
	if err != nil {
		logrus.WithError(err).Error("add friend: pending lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}
	if pending {
		utils.Error(w, http.StatusConflict, "A pending friend request already exists")
		return
	}

	err = h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		return repositories.CreateFriendEdges(tx, current.ID, friendID)
	})
	if err != nil {
		// A concurrent add or accept on the same pair trips the unique
		// index; report it as the same conflict.
		logrus.WithError(err).Warn("add friend: edge insert failed")
		utils.Error(w, http.StatusConflict, "Already friends")
		return
	}

	utils.Message(w, http.StatusCreated, "Friend added successfully")
}

// RemoveFriend godoc
// @Summary Remove a friend
// @Tags Friends
// @Produce json
// @Param id path int true "User id to unfriend"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /friends/remove/{id} [delete]
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	friendID, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		deleted, err := repositories.DeleteFriendEdges(tx, current.ID, friendID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return errNotFriends
		}
		return nil
	})
	switch {
	case err == nil:
		utils.Message(w, http.StatusOK, "Friend removed successfully")
	case errors.Is(err, errNotFriends):
		utils.Error(w, http.StatusNotFound, "Friendship not found")
	default:
		logrus.WithError(err).Error("remove friend: delete failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
	}
}

// pathID parses the {id} path segment, writing a 400 on malformed input.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
