package api

import (
	"net/http"
	"time"

	"primedrive-api/internal/database"
	"primedrive-api/internal/middleware"
	"primedrive-api/internal/models"
	"primedrive-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SignupRequest represents signup request
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserProfile represents the caller's account with tier info
type UserProfile struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone,omitempty"`
	WhatsApp              string     `json:"whatsapp,omitempty"`
	IsAdmin               bool       `json:"is_admin"`
	CurrentTier           string     `json:"current_tier"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	ListingCount          int64      `json:"listing_count"`
	ListingLimit          *int       `json:"listing_limit"`
	CreatedAt             time.Time  `json:"created_at"`
}

// AuthResponse represents signup/login response
type AuthResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	AccessToken string       `json:"access_token,omitempty"`
	TokenType   string       `json:"token_type,omitempty"`
	User        *UserProfile `json:"user,omitempty"`
}

// buildUserProfile assembles the profile response for a user
func buildUserProfile(user *models.User) (*UserProfile, error) {
	count, err := database.CountActiveListings(user.ID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		ID:                    user.ID,
		Email:                 user.Email,
		Phone:                 user.Phone,
		WhatsApp:              user.WhatsApp,
		IsAdmin:               user.IsAdmin,
		CurrentTier:           user.CurrentTier.Name,
		SubscriptionExpiresAt: user.SubscriptionExpiresAt,
		ListingCount:          count,
		ListingLimit:          user.CurrentTier.ListingLimit,
		CreatedAt:             user.CreatedAt,
	}, nil
}

// Signup registers a new user on the free tier
// POST /api/auth/signup
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	if _, err := database.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, AuthResponse{
			Success: false,
			Message: "An account with this email already exists",
		})
		return
	}

	freeTier, err := database.GetTierByName(models.TierFree)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Service unavailable",
		})
		return
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Signup failed",
		})
		return
	}

	user := &models.User{
		Email:         req.Email,
		PasswordHash:  hash,
		Phone:         req.Phone,
		WhatsApp:      req.WhatsApp,
		CurrentTierID: freeTier.ID,
		CurrentTier:   *freeTier,
	}
	if err := database.CreateUser(user); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Signup failed: " + err.Error(),
		})
		return
	}

	token, err := services.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Signup failed",
		})
		return
	}

	profile, err := buildUserProfile(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Signup failed",
		})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Success:     true,
		AccessToken: token,
		TokenType:   "bearer",
		User:        profile,
	})
}

// Login authenticates a user and issues a bearer token
// POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	user, err := database.GetUserByEmail(req.Email)
	if err != nil || !services.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	}

	token, err := services.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Login failed",
		})
		return
	}

	profile, err := buildUserProfile(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Login failed",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success:     true,
		AccessToken: token,
		TokenType:   "bearer",
		User:        profile,
	})
}

// GetMe returns the current user's profile
// GET /api/auth/me
func GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	profile, err := buildUserProfile(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Message: "Failed to load profile",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		User:    profile,
	})
}
