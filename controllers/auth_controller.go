package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"snaptika-api/config"
	"snaptika-api/models"
	"snaptika-api/services"
)

type AuthController struct {
	db     *gorm.DB
	config *config.Config
	email  *services.EmailService
}

func NewAuthController(db *gorm.DB, cfg *config.Config, email *services.EmailService) *AuthController {
	return &AuthController{db: db, config: cfg, email: email}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

func (ac *AuthController) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.config.JWTSecret))
}

// Register creates a new account and mails a verification code.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	err := ac.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email or username already taken"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := models.User{
		ID:         uuid.New().String(),
		Email:      req.Email,
		Username:   req.Username,
		Password:   string(hashed),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       models.RoleUser,
		IsActive:   true,
		LastActive: time.Now(),
	}

	if err := ac.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	// Registration succeeds even when the mail provider is down; the user
	// can request another code later.
	go ac.email.SendVerificationEmail(user.Email, user.FirstName)

	token, err := ac.generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// Login authenticates an account and issues a JWT.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := ac.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		return
	}

	ac.db.Model(&user).UpdateColumn("last_active", time.Now())

	token, err := ac.generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// SendVerification mails a fresh verification code to an unverified account.
func (ac *AuthController) SendVerification(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := ac.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if user.Verified {
		c.JSON(http.StatusConflict, gin.H{"error": "Account is already verified"})
		return
	}

	if _, err := ac.email.SendVerificationEmail(user.Email, user.FirstName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// VerifyEmail consumes a verification code and marks the account verified.
func (ac *AuthController) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !ac.email.VerifyCode(req.Email, req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification code"})
		return
	}

	if err := ac.db.Model(&models.User{}).Where("email = ?", req.Email).
		UpdateColumn("verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account verified successfully"})
}

// Me returns the authenticated user's own profile.
func (ac *AuthController) Me(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := ac.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}
