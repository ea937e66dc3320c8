package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staynear-app/server/internal/api/middleware"
	"github.com/staynear-app/server/internal/models"
	"github.com/staynear-app/server/internal/repositories"
	"github.com/staynear-app/server/internal/utils"
)

// UpdatePosition godoc
// @Summary Report the caller's current position
// @Description Upserts the single position row for the caller; last write wins.
// @Tags Positions
// @Accept json
// @Produce json
// @Param body body object true "lat, lng"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /position [put]
func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	var input struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Lat == nil || input.Lng == nil {
		utils.Error(w, http.StatusBadRequest, "Missing coordinates")
		return
	}

	position := models.Position{
		UserID: current.ID,
		Lat:    *input.Lat,
		Lng:    *input.Lng,
	}
	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lat", "lng", "updated_at"}),
		}).Create(&position).Error
	})
	if err != nil {
		logrus.WithError(err).Error("position: upsert failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.Message(w, http.StatusOK, "Position updated")
}

// friendPositionEntry shapes the nested position in the response.
type friendPositionEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	ImgURL   string `json:"imgURL"`
	Position struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"position"`
}

// ListFriendPositions godoc
// @Summary List friends' current positions
// @Description Friends without a recorded position are omitted.
// @Tags Positions
// @Produce json
// @Success 200 {array} handlers.friendPositionEntry
// @Router /positions/friends [get]
func (h *Handler) ListFriendPositions(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r.Context())

	rows, err := repositories.ListFriendPositions(h.DB, current.ID)
	if err != nil {
		logrus.WithError(err).Error("positions: query failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	results := make([]friendPositionEntry, 0, len(rows))
	for _, row := range rows {
		entry := friendPositionEntry{
			UserID:   row.UserID,
			Username: row.Username,
			ImgURL:   row.ImgURL,
		}
		entry.Position.Lat = row.Lat
		entry.Position.Lng = row.Lng
		results = append(results, entry)
	}

	utils.JSON(w, http.StatusOK, results)
}
