package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/api/middleware"
	"github.com/staynear-app/server/internal/models"
	"github.com/staynear-app/server/internal/repositories"
	"github.com/staynear-app/server/internal/utils"
)

// SearchResult is a search hit annotated with the friendship status towards
// the caller.
type SearchResult struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	ImgURL   string `json:"imgURL"`
	IsFriend bool   `json:"isFriend"`
}

// SearchUsers godoc
// @Summary Search users by username
// @Description Case-insensitive substring match; the caller is excluded from results.
// @Tags Users
// @Produce json
// @Param q path string true "Search term"
// @Success 200 {array} handlers.SearchResult
// @Router /users/search/{q} [get]
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())
	query := r.PathValue("q")

	var users []models.User
	err := h.DB.
		Where("LOWER(username) LIKE ?", "%"+strings.ToLower(query)+"%").
		Where("id <> ?", current.ID).
		Find(&users).Error
	if err != nil {
		logrus.WithError(err).Error("search: query failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	friendIDs, err := repositories.FriendIDSet(h.DB, current.ID)
	if err != nil {
		logrus.WithError(err).Error("search: friend lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	results := make([]SearchResult, 0, len(users))
	for _, u := range users {
		results = append(results, SearchResult{
			ID:       u.ID,
			Username: u.Username,
			ImgURL:   u.ImgURL,
			IsFriend: friendIDs[u.ID],
		})
	}

	utils.JSON(w, http.StatusOK, results)
}

// UpdateProfileImage godoc
// @Summary Upload a new profile image
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /profile/image [put]
func (h *Handler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	const maxUploadSize = 10 << 20 // 10 MB
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid upload form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "No image uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		utils.Error(w, http.StatusBadRequest, "No file selected")
		return
	}

	key := fmt.Sprintf("user_%d_%s_%s.jpg",
		current.ID,
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
	)

	imgURL, err := h.Avatars.Save(r.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		logrus.WithError(err).Error("profile image: store failed")
		utils.Error(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	err = h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).
			Where("id = ?", current.ID).
			Update("img_url", imgURL).Error
	})
	if err != nil {
		logrus.WithError(err).Error("profile image: update failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"message": "Profile image updated",
		"imgURL":  imgURL,
	})
}
