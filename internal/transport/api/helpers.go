package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userID, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	id, ok := userID.(int64)
	if !ok {
		return 0
	}
	return id
}

// abortWithError прерывает запрос, статус ответа определяет middlewares.Errors по типу ошибки.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindError прерывает запрос с ошибкой разбора тела или параметров.
func bindError(c *gin.Context, err error) {
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		abortWithError(c, toValidationError(valErrs))
		return
	}
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.Abort()
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		bindError(c, err)
		return false
	}
	return true
}

// bindOptionalJSON разбирает тело, если клиент его передал. Длина тела не учитывается: при
// Transfer-Encoding: chunked ContentLength равен -1. Пустое тело ошибкой не считается.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		bindError(c, err)
		return false
	}
	return true
}

// paramID читает положительный целочисленный параметр пути.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, domain.NewValidationError(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// PageQuery параметры постраничной выборки из query string.
type PageQuery struct {
	Page     int `binding:"omitempty,min=1"         form:"page"`
	PageSize int `binding:"omitempty,min=1,max=100" form:"pageSize"`
}

func (q PageQuery) toPage() repoargs.Page {
	return repoargs.Page{Number: q.Page, Size: q.PageSize}
}

// versionETag слабый ETag с версией записи.
func versionETag(version int64) string {
	return `W/"` + strconv.FormatInt(version, 10) + `"`
}
