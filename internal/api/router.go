package api

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"gorm.io/gorm"

	_ "github.com/staynear-app/server/docs"

	"github.com/staynear-app/server/internal/api/handlers"
	"github.com/staynear-app/server/internal/api/middleware"
	"github.com/staynear-app/server/internal/repositories"
)

// RouterConfig carries everything the router wires into the handlers.
type RouterConfig struct {
	DB        *gorm.DB
	Avatars   *repositories.AvatarStore
	JWTSecret string
	Cors      cors.Options
}

func SetupRouter(cfg RouterConfig) http.Handler {
	h := handlers.New(cfg.DB, cfg.Avatars, cfg.JWTSecret)
	c := cors.New(cfg.Cors)

	mainMux := http.NewServeMux()

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mainMux.HandleFunc("POST /register", h.Register)
	mainMux.HandleFunc("POST /login", h.Login)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("POST /logout", h.Logout)

	protectedMux.HandleFunc("GET /users/search/{q}", h.SearchUsers)
	protectedMux.HandleFunc("PUT /profile/image", h.UpdateProfileImage)

	protectedMux.HandleFunc("GET /friends", h.ListFriends)
	protectedMux.HandleFunc("GET /friends/all", h.ListAllFriends)
	protectedMux.HandleFunc("POST /friends/add/{id}", h.AddFriend)
	protectedMux.HandleFunc("DELETE /friends/remove/{id}", h.RemoveFriend)

	protectedMux.HandleFunc("POST /friends/request/{id}", h.SendFriendRequest)
	protectedMux.HandleFunc("GET /friends/requests/pending", h.ListPendingRequests)
	protectedMux.HandleFunc("POST /friends/requests/{id}/accept", h.AcceptFriendRequest)
	protectedMux.HandleFunc("POST /friends/requests/{id}/reject", h.RejectFriendRequest)

	protectedMux.HandleFunc("PUT /position", h.UpdatePosition)
	protectedMux.HandleFunc("GET /positions/friends", h.ListFriendPositions)

	// Everything not matched above requires a bearer token.
	mainMux.Handle("/", middleware.Auth(cfg.DB, cfg.JWTSecret)(protectedMux))

	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
