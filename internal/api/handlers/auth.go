package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/staynear-app/server/internal/models"
	"github.com/staynear-app/server/internal/utils"
)

// tokenTTL is the only invalidation mechanism; there is no revocation list.
const tokenTTL = 7 * 24 * time.Hour

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "username, email, password"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Username == "" || input.Email == "" || input.Password == "" {
		utils.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	var existing models.User
	if err := h.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		utils.Error(w, http.StatusConflict, "Username is already taken")
		return
	}

	err := h.DB.Where("email = ?", input.Email).First(&existing).Error
	switch err {
	case nil:
		utils.Error(w, http.StatusConflict, "Email is already registered")
		return
	case gorm.ErrRecordNotFound:
		// new account
	default:
		logrus.WithError(err).Error("register: user lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		ImgURL:   models.DefaultAvatarURL,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		logrus.WithError(err).Error("register: insert failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.Message(w, http.StatusCreated, "User registered successfully")
}

// Login godoc
// @Summary Log in and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "email, password"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Email == "" || input.Password == "" {
		utils.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	var user models.User
	err := h.DB.Where("email = ?", input.Email).First(&user).Error
	switch err {
	case nil:
		// user found
	case gorm.ErrRecordNotFound:
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	default:
		logrus.WithError(err).Error("login: user lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.createToken(user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Logout acknowledges the logout; tokens are stateless, so the client simply
// discards its copy.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) createToken(userID uint) (string, error) {
	expiration := time.Now().Add(tokenTTL)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}
