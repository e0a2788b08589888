package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"suppliers-be/internal/middleware"
	"suppliers-be/internal/models"
	"suppliers-be/internal/service"
)

// CookieConfig controls the access_token cookie set at login
type CookieConfig struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

type AuthController struct {
	authService service.AuthService
	cookie      CookieConfig
}

func NewAuthController(authService service.AuthService, cookie CookieConfig) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
	}
}

// Signup handles POST /api/auth/signup
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ac.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/auth/login. Accepts JSON or an OAuth2 password form.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Incorrect email or password"})
		return
	}

	ac.cookie.setToken(c, "Bearer "+token.AccessToken, int(ac.cookie.MaxAge.Seconds()))
	c.JSON(http.StatusOK, token)
}

// Logout handles POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	ac.cookie.clearToken(c)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}

func (cc CookieConfig) setToken(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, value, maxAge, "/", cc.Domain, cc.Secure, true)
}

func (cc CookieConfig) clearToken(c *gin.Context) {
	cc.setToken(c, "", -1)
}
