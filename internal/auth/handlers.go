package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller exposes the authentication endpoints as a JSON API.
type Controller struct {
	provider SessionProvider
	service  *Service
}

// NewController creates a new authentication controller. The service
// may be nil when authentication is disabled; token endpoints then
// report that tokens are unavailable.
func NewController(provider SessionProvider, service *Service) *Controller {
	return &Controller{provider: provider, service: service}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/auth/signup", ac.SignUp)
	router.POST("/api/auth/login", ac.Login)
	router.POST("/api/auth/logout", ac.Logout)
	router.POST("/api/auth/token", ac.GenerateToken)
	router.DELETE("/api/auth/token", ac.RevokeToken)
	router.GET("/api/auth/me", ac.Me)
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// SignUp creates an account and signs the caller in.
func (ac *Controller) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := ac.provider.SignUp(c.Request, req.Username, req.Email, req.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrUserExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Login validates credentials and starts a session.
func (ac *Controller) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := ac.provider.SignIn(c.Request, req.Username, req.Password)
	if err != nil {
		// The response never reveals whether the account exists.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Logout destroys the caller's session.
func (ac *Controller) Logout(c *gin.Context) {
	if err := ac.provider.SignOut(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me reports who the caller is.
func (ac *Controller) Me(c *gin.Context) {
	session, err := ac.provider.GetSession(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":   session.UserID,
		"username":  session.Username,
		"auth_type": session.AuthType,
	})
}

// GenerateToken creates a new API token for the authenticated user.
func (ac *Controller) GenerateToken(c *gin.Context) {
	if ac.service == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "tokens are unavailable when authentication is disabled"})
		return
	}

	userID := GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	token, err := ac.service.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Store this token securely - it will not be shown again",
	})
}

// RevokeToken revokes the API token for the authenticated user.
func (ac *Controller) RevokeToken(c *gin.Context) {
	if ac.service == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "tokens are unavailable when authentication is disabled"})
		return
	}

	userID := GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := ac.service.RevokeToken(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
