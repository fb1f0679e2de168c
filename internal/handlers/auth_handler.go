package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/mailer"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/tokens"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

const (
	confirmTokenTTL = 48 * time.Hour
	resetTokenTTL   = 2 * time.Hour
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	tokens *tokens.Store
	mail   *mailer.Mailer
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	tk *tokens.Store,
	mail *mailer.Mailer,
) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, tokens: tk, mail: mail}
}

// --------- Requests ---------

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Gender   string `json:"gender"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// --------- Handlers ---------

// Register cria o cadastro de paciente (médicos são criados pelo admin)
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "O domínio do e-mail informado não parece ser válido.",
		})
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	user := models.User{
		FullName:     req.FullName,
		Gender:       req.Gender,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RolePatient,
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	patient := models.Patient{
		UserID:   user.ID,
		JoinDate: time.Now(),
		Status:   true,
	}

	if err := h.db.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_patient"})
		return
	}

	h.sendConfirmation(c, &user)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cadastro criado. Confirme seu e-mail antes de entrar.",
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	if !user.EmailConfirmed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "email_not_confirmed"})
		return
	}

	// o flag ativo/inativo do perfil bloqueia o login aqui,
	// antes de qualquer rota protegida
	profileID, err := h.loadActiveProfileID(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account_disabled"})
		return
	}

	token, err := h.generateToken(&user, profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
		},
		"token": token,
	})
}

func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_token"})
		return
	}

	userID, err := h.tokens.Consume(c.Request.Context(), tokens.PurposeConfirmEmail, token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_or_expired_token"})
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("email_confirmed", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_confirm_email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "E-mail confirmado. Você já pode entrar."})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err == nil {
		token, err := h.tokens.Issue(c.Request.Context(), tokens.PurposeResetPassword, user.ID, resetTokenTTL)
		if err == nil {
			if err := h.mail.SendPasswordReset(user.Email, user.FullName, token); err != nil {
				log.Printf("failed to send reset mail to %s: %v", user.Email, err)
			}
		}
	}

	// resposta genérica: não revela se o e-mail existe
	c.JSON(http.StatusOK, gin.H{
		"message": "Se o e-mail estiver cadastrado, você receberá o link de redefinição.",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	userID, err := h.tokens.Consume(c.Request.Context(), tokens.PurposeResetPassword, req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_or_expired_token"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_reset_password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Senha redefinida com sucesso."})
}

func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err == nil && !user.EmailConfirmed {
		h.sendConfirmation(c, &user)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Se o cadastro existir, o e-mail de confirmação foi reenviado.",
	})
}

// --------- Helpers ---------

func (h *AuthHandler) sendConfirmation(c *gin.Context, user *models.User) {
	token, err := h.tokens.Issue(c.Request.Context(), tokens.PurposeConfirmEmail, user.ID, confirmTokenTTL)
	if err != nil {
		log.Printf("failed to issue confirmation token for %s: %v", user.Email, err)
		return
	}

	if err := h.mail.SendConfirmation(user.Email, user.FullName, token); err != nil {
		log.Printf("failed to send confirmation mail to %s: %v", user.Email, err)
	}
}

func (h *AuthHandler) loadActiveProfileID(user *models.User) (uint, error) {
	switch user.Role {
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := h.db.Where("user_id = ? AND status = ?", user.ID, true).First(&doctor).Error; err != nil {
			return 0, err
		}
		return doctor.ID, nil

	case models.RolePatient:
		var patient models.Patient
		if err := h.db.Where("user_id = ? AND status = ?", user.ID, true).First(&patient).Error; err != nil {
			return 0, err
		}
		return patient.ID, nil
	}

	// admin não tem perfil
	return 0, nil
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User, profileID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"role":      user.Role,
		"profileId": profileID,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
