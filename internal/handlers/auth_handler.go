package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/auth"
	"github.com/queuebeat/backend/internal/models"
	"github.com/queuebeat/backend/internal/repository"
)

type AuthHandler struct {
	accountRepo *repository.AccountRepository
	jwtService  *auth.JWTService
}

func NewAuthHandler(accountRepo *repository.AccountRepository, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		accountRepo: accountRepo,
		jwtService:  jwtService,
	}
}

// Register handles dashboard account registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	account := &models.Account{
		ID:           uuid.New(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.accountRepo.Create(account); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.jwtService.GenerateToken(account.ID, account.Email)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, models.LoginResponse{
		Token:   token,
		Account: *account,
	})
}

// Login handles dashboard login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.accountRepo.GetByEmail(req.Email)
	if err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := auth.CheckPassword(account.PasswordHash, req.Password); err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(account.ID, account.Email)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:   token,
		Account: *account,
	})
}

// GetMe returns the current account
func (h *AuthHandler) GetMe(c *gin.Context) {
	accountID, _ := c.Get("user_id")
	id := accountID.(uuid.UUID)

	account, err := h.accountRepo.GetByID(id)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Account not found")
		return
	}

	c.JSON(http.StatusOK, account)
}
