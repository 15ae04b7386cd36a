package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/http/middleware"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/repositories"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

const tokenTTL = 24 * time.Hour

// AuthHandler serves register, login and password change.
type AuthHandler struct {
	Accounts  repositories.AccountRepository
	JWTSecret []byte
}

// AuthUser is the account payload returned on register and login.
type AuthUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		RespondDomainError(c, domain.ValidationError{Field: "username", Msg: "username is required"})
		return
	}
	if len(req.Password) < 6 {
		RespondDomainError(c, domain.ValidationError{Field: "password", Msg: "password must be at least 6 characters"})
		return
	}

	exists, err := h.Accounts.UsernameExists(username)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		RespondDomainError(c, domain.ConflictError{Msg: "username already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password", err)
		return
	}

	id, err := h.Accounts.Create(username, string(hash), models.RoleUser, 0)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", username)

	c.JSON(http.StatusCreated, gin.H{
		"user": AuthUser{ID: id, Username: username, Role: models.RoleUser},
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	acct, passwordHash, err := h.Accounts.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "invalid username or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "invalid username or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": acct.ID,
		"role":       acct.Role,
		"exp":        time.Now().Add(tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(h.JWTSecret)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", acct.Username)

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  AuthUser{ID: acct.ID, Username: acct.Username, Role: acct.Role},
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// POST /api/auth/change-password
func (h AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if len(req.NewPassword) < 6 {
		RespondDomainError(c, domain.ValidationError{Field: "new_password", Msg: "password must be at least 6 characters"})
		return
	}

	accountID := middleware.AccountID(c)
	acct, err := h.Accounts.GetByID(accountID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	_, passwordHash, err := h.Accounts.GetByUsername(acct.Username)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.OldPassword)); err != nil {
		RespondError(c, http.StatusUnauthorized, "old password is incorrect", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password", err)
		return
	}
	if err := h.Accounts.UpdatePassword(accountID, string(hash)); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "auth", "change_password", acct.Username)

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
