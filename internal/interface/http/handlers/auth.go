package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/internal/application/command"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	auth *command.AuthHandler
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *command.AuthHandler) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: err.Error()}})
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), command.SignupCommand{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		UserID:      result.UserID,
		DisplayName: result.DisplayName,
		Token:       result.Token,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: err.Error()}})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), command.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		UserID:      result.UserID,
		DisplayName: result.DisplayName,
		Token:       result.Token,
	})
}
