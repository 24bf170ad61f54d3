package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userService UserServicer
}

func NewProfileHandler(userService UserServicer) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// Show GET RouteGroup + ProfileRoute.
func (h *ProfileHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profile, err := h.userService.GetProfile(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(profile))
}

type UpdateProfileParams struct {
	FullName  string `binding:"max_bytes=255"            json:"fullName"`
	Phone     string `binding:"max_bytes=32"             json:"phone"`
	Address   string `binding:"max_bytes=1024"           json:"address"`
	AvatarURL string `binding:"omitempty,url,max=2048"   json:"avatarUrl"`
}

// Update PUT RouteGroup + ProfileRoute.
func (h *ProfileHandler) Update(c *gin.Context) {
	var params UpdateProfileParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profile, err := h.userService.UpdateProfile(ctx, getUserIDFromContext(c), repoargs.UpdateProfile{
		FullName:  params.FullName,
		Phone:     params.Phone,
		Address:   params.Address,
		AvatarURL: params.AvatarURL,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(profile))
}

func newProfileResponse(p *service.Profile) ProfileResponse {
	res := ProfileResponse{User: newUserResponse(*p.User)}
	if p.Profile != nil {
		res.FullName = p.Profile.FullName
		res.Phone = p.Profile.Phone
		res.Address = p.Profile.Address
		res.AvatarURL = p.Profile.AvatarURL
	}
	return res
}
