package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suppliers-be/internal/middleware"
	"suppliers-be/internal/models"
	"suppliers-be/internal/service"
)

// UserController serves the authenticated user's own account
type UserController struct {
	userService service.UserService
	cookie      CookieConfig
}

func NewUserController(userService service.UserService, cookie CookieConfig) *UserController {
	return &UserController{
		userService: userService,
		cookie:      cookie,
	}
}

// GetMe handles GET /api/user/me
func (uc *UserController) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, service.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// UpdateMe handles PUT /api/user/me. Changing the email invalidates tokens
// issued for the old address; the client must log in again.
func (uc *UserController) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, service.ErrUnauthorized)
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := uc.userService.UpdateUser(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(updated))
}

// DeleteMe handles DELETE /api/user/me
func (uc *UserController) DeleteMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, service.ErrUnauthorized)
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	uc.cookie.clearToken(c)
	c.Status(http.StatusNoContent)
}
