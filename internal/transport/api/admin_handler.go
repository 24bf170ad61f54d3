package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

// AdminHandler управление пользователями. Маршруты доступны только администраторам.
type AdminHandler struct {
	userService UserServicer
}

func NewAdminHandler(userService UserServicer) *AdminHandler {
	return &AdminHandler{userService: userService}
}

type UsersQuery struct {
	PageQuery
	Search string `binding:"max_bytes=255" form:"search"`
}

// Users GET RouteGroup + AdminUsersRoute.
func (h *AdminHandler) Users(c *gin.Context) {
	var q UsersQuery
	if !bindQuery(c, &q) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	res, err := h.userService.ListUsers(ctx, repoargs.UserFilter{Search: q.Search, Page: q.toPage()})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(res, newUserResponse))
}

type SetRoleParams struct {
	Role string `binding:"required,role" json:"role"`
}

// SetRole PUT RouteGroup + AdminUserRoleRoute.
func (h *AdminHandler) SetRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var params SetRoleParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.SetRole(ctx, middlewares.CurrentActor(c), id, domain.Role(params.Role))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user))
}

// DeleteUser DELETE RouteGroup + AdminUserRoute. Мягкое удаление.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.DeleteUser(ctx, middlewares.CurrentActor(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
