package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService UserServicer
}

func NewAuthHandler(userService UserServicer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type UserRegisterParams struct {
	Email    string `binding:"required,email,max=255"       json:"email"`
	Username string `binding:"required,min=3,max_bytes=50"  json:"username"`
	Password string `binding:"required,min=8,max_bytes=72"  json:"password"`
}

// Register POST RouteGroup + RegisterRoute. Создает неподтвержденного пользователя и отправляет код на почту.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.Register(ctx, service.RegisterUserArgs{
		Email:    params.Email,
		Username: params.Username,
		Password: params.Password,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(*user))
}

type VerifyOTPParams struct {
	Email string `binding:"required,email"        json:"email"`
	Code  string `binding:"required,min=4,max=10" json:"code"`
}

// Verify POST RouteGroup + VerifyRoute. Подтверждает почту кодом и сразу аутентифицирует пользователя.
func (h *AuthHandler) Verify(c *gin.Context) {
	var params VerifyOTPParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	res, err := h.userService.VerifyOTP(ctx, params.Email, params.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	respondWithToken(c, res)
}

type ResendOTPParams struct {
	Email string `binding:"required,email" json:"email"`
}

// ResendOTP POST RouteGroup + ResendOTPRoute.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var params ResendOTPParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.ResendOTP(ctx, params.Email); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type UserLoginParams struct {
	Email    string `binding:"required,email"           json:"email"`
	Password string `binding:"required,max_bytes=72"    json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре email/пароль.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	res, err := h.userService.Login(ctx, service.LoginUserArgs{
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	respondWithToken(c, res)
}

// Logout POST RouteGroup + LogoutRoute. Отзывает текущий токен до его истечения.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middlewares.CurrentClaims(c)
	if claims == nil {
		abortWithError(c, domain.ErrUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.Logout(ctx, claims); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondWithToken(c *gin.Context, res *service.AuthResult) {
	c.Header("Authorization", "Bearer "+res.Token)
	c.JSON(http.StatusOK, AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      newUserResponse(*res.User),
	})
}
