package handlers

import (
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/repositories"
)

// Handler carries the injected collaborators every request handler needs:
// the database handle and the avatar object store. Mutating handlers open a
// transaction on DB per request.
type Handler struct {
	DB        *gorm.DB
	Avatars   *repositories.AvatarStore
	JWTSecret string
}

func New(db *gorm.DB, avatars *repositories.AvatarStore, jwtSecret string) *Handler {
	return &Handler{
		DB:        db,
		Avatars:   avatars,
		JWTSecret: jwtSecret,
	}
}
