package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/session"
)

type AuthController struct {
	client   *clients.CommerceClient
	sessions *session.Manager
	log      *zap.Logger
}

func NewAuthController(client *clients.CommerceClient, sessions *session.Manager, log *zap.Logger) *AuthController {
	return &AuthController{client: client, sessions: sessions, log: log}
}

type loginForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against the remote API and opens the session.
func (ac *AuthController) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	// Best-effort reachability probe; login proceeds either way.
	if err := ac.client.Health(c.Request.Context()); err != nil {
		ac.log.Warn("commerce API health check failed", zap.Error(err))
	}

	tok, user, err := ac.client.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		ac.log.Warn("login failed", zap.String("email", form.Email), zap.Error(err))
		respondError(c, err)
		return
	}

	if err := ac.sessions.Login(c.Request.Context(), tok, user); err != nil {
		ac.log.Warn("login rejected", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome back, %s!", user.DisplayName()),
		"user":    user,
	})
}

// Logout closes the session. It always succeeds.
func (ac *AuthController) Logout(c *gin.Context) {
	ac.sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// Session reports the current authentication state.
func (ac *AuthController) Session(c *gin.Context) {
	body := gin.H{"authenticated": ac.sessions.IsAuthenticated()}
	if user, ok := ac.sessions.CurrentUser(); ok {
		body["user"] = user
	}
	c.JSON(http.StatusOK, body)
}
