package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civiclink/middlewares"
	"civiclink/models"
	"civiclink/services"
	authUtils "civiclink/utils"
)

// AuthSettings controls token signing and the auth cookie.
type AuthSettings struct {
	Secret     string
	TokenTTL   time.Duration
	Domain     string
	Production bool
}

type AuthController struct {
	users    *services.UserService
	settings AuthSettings
}

func NewAuthController(users *services.UserService, settings AuthSettings) *AuthController {
	return &AuthController{users: users, settings: settings}
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"avatarUrl": user.AvatarURL,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}
}

// RegisterUser handles user registration
func (h *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.Register(ctx, services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respondError(c, err, "Something went wrong")
		return
	}
	c.JSON(http.StatusCreated, userJSON(user))
}

// LoginUser checks credentials, sets the auth cookie and returns the token
// for clients that prefer the Authorization header.
func (h *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.Authenticate(ctx, input.Email, input.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, err, "Something went wrong")
		return
	}

	token, err := authUtils.GenerateToken(h.settings.Secret, user, h.settings.TokenTTL)
	if err != nil {
		slog.Error("generating token failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	// For production, don't set domain to allow cross-origin cookies
	domain := h.settings.Domain
	if h.settings.Production {
		domain = ""
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    token,
		MaxAge:   int(h.settings.TokenTTL.Seconds()),
		Path:     "/",
		Domain:   domain,
		Secure:   h.settings.Production,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	resp := userJSON(user)
	resp["token"] = token
	c.JSON(http.StatusOK, resp)
}

// GetMe retrieves the authenticated user's information
func (h *AuthController) GetMe(c *gin.Context) {
	viewer := middlewares.ViewerFrom(c)
	if viewer == nil {
		respondError(c, models.ErrUnauthorized, "")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.Get(ctx, viewer.ID)
	if err != nil {
		respondError(c, err, "Something went wrong")
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}

// LogoutUser handles user logout by clearing the auth_token cookie
func (h *AuthController) LogoutUser(c *gin.Context) {
	c.SetCookie(middlewares.AuthCookie, "", -1, "/", h.settings.Domain, h.settings.Production, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
