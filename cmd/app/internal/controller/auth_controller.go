package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vocabtest-backend/internal/service"
)

type AuthController struct {
	AuthService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Login handles POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var creds struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := bind(c, &creds); err != nil {
		fail(c, err, "")
		return
	}
	tokens, err := ac.AuthService.Login(creds.Username, creds.Password)
	if err != nil {
		ac.unauthorized(c, err)
		return
	}
	ok(c, http.StatusOK, tokens, "")
}

// Refresh handles POST /auth/refresh
func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := bind(c, &req); err != nil {
		fail(c, err, "")
		return
	}
	tokens, err := ac.AuthService.Refresh(req.RefreshToken)
	if err != nil {
		ac.unauthorized(c, err)
		return
	}
	ok(c, http.StatusOK, tokens, "")
}

func (ac *AuthController) unauthorized(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, Envelope{Error: err.Error()})
		return
	}
	fail(c, err, "Authentication failed")
}
