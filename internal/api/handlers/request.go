package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/api/middleware"
	"github.com/staynear-app/server/internal/models"
	"github.com/staynear-app/server/internal/repositories"
	"github.com/staynear-app/server/internal/utils"
)

// SendFriendRequest godoc
// @Summary Send a friend request
// @Description Refused when an edge or a pending request already exists between the pair, in either direction.
// @Tags Friends
// @Produce json
// @Param id path int true "User id to request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /friends/request/{id} [post]
func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	targetID, ok := pathID(w, r)
	if !ok {
		return
	}

	if current.ID == targetID {
		utils.Error(w, http.StatusBadRequest, "You cannot send a friend request to yourself")
		return
	}

	var target models.User
	if err := h.DB.First(&target, targetID).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	friends, err := repositories.FriendshipExists(h.DB, current.ID, targetID)
	if err != nil {
		logrus.WithError(err).Error("friend request: edge lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}
	if friends {
		utils.Error(w, http.StatusConflict, "You are already friends")
		return
	}

	pending, err := repositories.PendingRequestExists(h.DB, current.ID, targetID)
	if err != nil {
		logrus.WithError(err).Error("friend request: pending lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}
	if pending {
		utils.Error(w, http.StatusConflict, "A pending friend request already exists")
		return
	}

	request := models.FriendRequest{
		FromUser: current.ID,
		ToUser:   targetID,
		Status:   models.FriendRequestPending,
	}
	err = h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&request).Error
	})
	if err != nil {
		logrus.WithError(err).Error("friend request: insert failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.Message(w, http.StatusCreated, "Friend request sent successfully")
}

// PendingRequest is an incoming request enriched with sender profile data.
type PendingRequest struct {
	ID           uint                       `json:"id"`
	FromUser     uint                       `json:"from_user"`
	FromUsername string                     `json:"from_username"`
	FromImgURL   string                     `json:"from_user_image"`
	CreatedAt    string                     `json:"created_at"`
	Status       models.FriendRequestStatus `json:"status"`
}

// ListPendingRequests returns the caller's incoming pending requests in
// creation order.
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	type row struct {
		models.FriendRequest
		Username string
		ImgURL   string
	}
	var rows []row
	err := h.DB.Table("friend_requests").
		Select("friend_requests.*, users.username, users.img_url").
		Joins("JOIN users ON users.id = friend_requests.from_user").
		Where("friend_requests.to_user = ? AND friend_requests.status = ?",
			current.ID, models.FriendRequestPending).
		Order("friend_requests.created_at").
		Scan(&rows).Error
	if err != nil {
		logrus.WithError(err).Error("pending requests: query failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	results := make([]PendingRequest, 0, len(rows))
	for _, req := range rows {
		results = append(results, PendingRequest{
			ID:           req.ID,
			FromUser:     req.FromUser,
			FromUsername: req.Username,
			FromImgURL:   req.ImgURL,
			CreatedAt:    req.CreatedAt.Format(time.RFC3339),
			Status:       req.Status,
		})
	}

	utils.JSON(w, http.StatusOK, results)
}

// AcceptFriendRequest godoc
// @Summary Accept a friend request
// @Description Marks the request accepted and creates both directed friend edges in one transaction.
// @Tags Friends
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /friends/requests/{id}/accept [post]
func (h *Handler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveFriendRequest(w, r, models.FriendRequestAccepted)
}

// RejectFriendRequest godoc
// @Summary Reject a friend request
// @Tags Friends
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /friends/requests/{id}/reject [post]
func (h *Handler) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveFriendRequest(w, r, models.FriendRequestRejected)
}

// resolveFriendRequest transitions a pending request to its terminal state.
// Accepting additionally creates the edge pair through the same primitive as
// direct add, inside the same transaction as the status change.
func (h *Handler) resolveFriendRequest(w http.ResponseWriter, r *http.Request, outcome models.FriendRequestStatus) {
	current := middleware.CurrentUser(r.Context())

	requestID, ok := pathID(w, r)
	if !ok {
		return
	}

	var request models.FriendRequest
	if err := h.DB.First(&request, requestID).Error; err != nil {
		utils.Error(w, http.StatusNotFound, "Friend request not found")
		return
	}

	if request.ToUser != current.ID {
		utils.Error(w, http.StatusForbidden, "Not authorized")
		return
	}

	if request.Status != models.FriendRequestPending {
		utils.Error(w, http.StatusBadRequest, "Friend request already handled")
		return
	}

	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", requestID, models.FriendRequestPending).
			Update("status", outcome)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if outcome == models.FriendRequestAccepted {
			return repositories.CreateFriendEdges(tx, current.ID, request.FromUser)
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Error("friend request: resolve failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	if outcome == models.FriendRequestAccepted {
		utils.Message(w, http.StatusOK, "Friend request accepted")
		return
	}
	utils.Message(w, http.StatusOK, "Friend request rejected")
}
