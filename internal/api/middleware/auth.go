package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/models"
	"github.com/staynear-app/server/internal/utils"
)

type contextKey string

const userKey contextKey = "user"

// Auth verifies the bearer token on every request and resolves it to a user
// row before handler dispatch. The resolved user is placed in the request
// context; handlers read it back with CurrentUser.
func Auth(db *gorm.DB, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.Error(w, http.StatusUnauthorized, "Missing token")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				if errors.Is(err, jwt.ErrTokenExpired) {
					utils.Error(w, http.StatusUnauthorized, "Token has expired")
					return
				}
				utils.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// JSON numbers decode as float64
			rawID, ok := claims["user_id"].(float64)
			if !ok || rawID <= 0 {
				utils.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			var user models.User
			if err := db.First(&user, uint(rawID)).Error; err != nil {
				utils.Error(w, http.StatusUnauthorized, "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the user resolved by Auth, or nil on an unprotected
// route.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
