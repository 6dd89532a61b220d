package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nemopss/expense-tracker/backend/db"
	"github.com/nemopss/expense-tracker/backend/models"
)

type Handler struct {
	storage   db.Store
	jwtSecret string
}

func NewHandler(s db.Store, jwtSecret string) *Handler {
	return &Handler{storage: s, jwtSecret: jwtSecret}
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 409 {object} models.MessageResponse
// @Router /api/v1/users/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: err.Error()})
		return
	}

	user, err := h.storage.CreateUser(req.Name, req.Email, req.Password)
	if err == db.ErrEmailTaken {
		c.JSON(http.StatusConflict, models.MessageResponse{Success: false, Message: "User already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, models.UserResponse{
		Success: true,
		Message: "User registered successfully",
		User:    user,
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 401 {object} models.MessageResponse
// @Router /api/v1/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: err.Error()})
		return
	}

	user, err := h.storage.GetUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}
	// Same message for unknown email and wrong password, so the endpoint
	// cannot be used to enumerate accounts.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, models.MessageResponse{Success: false, Message: "Invalid credentials"})
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Success: true,
		Message: "User logged in successfully",
		User:    user,
		Token:   token,
	})
}

// SetAvatar godoc
// @Summary Store the avatar image chosen during onboarding
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body models.SetAvatarRequest true "Avatar image URL"
// @Success 200 {object} models.SetAvatarResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 403 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/setAvatar/{userId} [post]
func (h *Handler) SetAvatar(c *gin.Context) {
	userID := c.Param("userId")
	if userID != currentUserID(c) {
		c.JSON(http.StatusForbidden, models.MessageResponse{Success: false, Message: "Forbidden"})
		return
	}

	var req models.SetAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: err.Error()})
		return
	}

	user, err := h.storage.SetAvatar(userID, req.Image)
	if err == db.ErrNotFound {
		c.JSON(http.StatusNotFound, models.MessageResponse{Success: false, Message: "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.SetAvatarResponse{IsSet: user.IsAvatarImageSet, Image: user.AvatarImage})
}

func (h *Handler) generateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}
