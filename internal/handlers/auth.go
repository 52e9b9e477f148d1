package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/config"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// RegisterRequest represents the request body for user registration.
// Admin accounts are provisioned through user management, not self-signup.
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=patient doctor"`
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Check if user already exists
	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      models.Role(req.Role),
	}

	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	// Doctors start with a default profile they can refine later
	if user.Role == models.RoleDoctor {
		profile := models.DoctorProfile{
			UserID:               user.ID,
			SlotDuration:         30,
			AcceptingNewPatients: true,
		}
		if err := h.DB.Create(&profile).Error; err != nil {
			utils.InternalServerError(c, "Failed to create doctor profile: "+err.Error())
			return
		}
	}

	utils.Created(c, "User registered successfully", user.Sanitize())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         models.UserSanitized `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	accessToken, refreshTokenString, err := utils.GenerateTokens(&user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}
	// Store refresh token in DB
	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
		IsRevoked: false,
	}
	if err := h.DB.Create(&refreshToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	h.setRefreshCookie(c, refreshTokenString, h.Cfg.JWTRefreshExpirationHours*60*60)

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken handles refreshing an access token using a refresh token.
// Rotation: the presented token is revoked and a new one issued.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	// Prefer the HTTP-only cookie; fall back to the request body
	refreshTokenString, err := c.Cookie("refresh_token")
	if err != nil || refreshTokenString == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		refreshTokenString = req.RefreshToken
	}

	claims, err := utils.ValidateToken(refreshTokenString, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	var storedToken models.RefreshToken
	if err := h.DB.Where("token = ? AND user_id = ? AND is_revoked = ? AND expires_at > ?",
		refreshTokenString, claims.UserID, false, time.Now()).First(&storedToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		} else {
			utils.InternalServerError(c, "Database error checking refresh token: "+err.Error())
		}
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		utils.InternalServerError(c, "Failed to find user associated with token: "+err.Error())
		return
	}

	storedToken.IsRevoked = true
	h.DB.Save(&storedToken)

	newAccessToken, newRefreshTokenString, err := utils.GenerateTokens(&user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate new tokens: "+err.Error())
		return
	}

	newRefreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     newRefreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
		IsRevoked: false,
	}
	if err := h.DB.Create(&newRefreshToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to store new refresh token: "+err.Error())
		return
	}

	h.setRefreshCookie(c, newRefreshTokenString, h.Cfg.JWTRefreshExpirationHours*60*60)

	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshTokenString,
	})
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Logout revokes the presented refresh token and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		utils.BadRequest(c, "Refresh token is required")
		return
	}

	var storedToken models.RefreshToken
	if err := h.DB.Where("token = ? AND is_revoked = ?", req.RefreshToken, false).First(&storedToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Already revoked or unknown, which is acceptable for logout
			utils.Success(c, "Logout successful", nil)
		} else {
			utils.InternalServerError(c, "Database error during logout: "+err.Error())
		}
		return
	}

	storedToken.IsRevoked = true
	storedToken.ExpiresAt = time.Now()
	if err := h.DB.Save(&storedToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}

	h.setRefreshCookie(c, "", -1)

	utils.Success(c, "Logout successful. Refresh token has been invalidated.", nil)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(
		"refresh_token",
		value,
		maxAge,
		"/",
		"",
		h.Cfg.Environment != "development",
		true, // HTTP only
	)
}

// GetProfile handles fetching the currently authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.Preload("DoctorProfile").Preload("DoctorProfile.Availability").
		First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Profile fetched successfully", user.Sanitize())
}

// UpdateProfileRequest represents the request body for updating user profile.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// UpdateProfile handles updating the currently authenticated user's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}
