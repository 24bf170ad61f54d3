package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/service/tokens"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const ProblemContentType = "application/problem+json"

const redactedDetail = "internal server error"

// repositoryContext начало контекста, который слой репозитория добавляет к ошибкам.
const repositoryContext = "[repository/"

// Problem тело ответа об ошибке. Errors заполняется только для ошибок валидации.
type Problem struct {
	Status   int                 `json:"status"`
	Title    string              `json:"title"`
	Detail   string              `json:"detail"`
	Instance string              `json:"instance"`
	Code     string              `json:"code,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

type errorKind struct {
	target error
	status int
	code   string
}

// порядок важен: ErrTokenRevoked и ErrInvalidCredentials проверяются до общего ErrUnauthorized.
var errorKinds = []errorKind{
	{domain.ErrRecordNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrEmailNotVerified, http.StatusForbidden, "email_not_verified"},
	{domain.ErrConcurrency, http.StatusConflict, "concurrency"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrDuplicateKey, http.StatusConflict, "conflict"},
	{domain.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked"},
	{tokens.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{tokens.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrPasswordMissMatch, http.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrInvalidOTP, http.StatusUnauthorized, "invalid_otp"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
}

// NewProblem строит описание ошибки. Необработанные ошибки превращаются в 500, их текст попадает в detail
// только при exposeInternal.
func NewProblem(err *gin.Error, instance string, exposeInternal bool) Problem {
	p := Problem{Instance: instance}

	var verr *domain.ValidationError
	switch {
	case errors.As(err.Err, &verr):
		p.Status = http.StatusBadRequest
		p.Code = "validation_failed"
		p.Detail = "request validation failed"
		p.Errors = verr.Fields
	case err.IsType(gin.ErrorTypeBind):
		p.Status = http.StatusBadRequest
		p.Code = "bad_request"
		p.Detail = err.Error()
	default:
		p.Status = http.StatusInternalServerError
		p.Detail = redactedDetail
		for _, k := range errorKinds {
			if errors.Is(err.Err, k.target) {
				p.Status = k.status
				p.Code = k.code
				p.Detail = clientDetail(err.Err, k.target)
				break
			}
		}
		if p.Status == http.StatusInternalServerError && exposeInternal {
			p.Detail = err.Error()
		}
	}

	p.Title = http.StatusText(p.Status)
	return p
}

// clientDetail текст ошибки для клиента. Если ошибка пришла из репозитория, ее текст содержит детали
// запросов и отдается только сообщение kind.
func clientDetail(err, kind error) string {
	msg := err.Error()
	if strings.Contains(msg, repositoryContext) {
		return kind.Error()
	}
	return msg
}

// Errors преобразует первую ошибку из c.Errors в problem details. Необработанные ошибки логируются
// целиком, клиенту их текст отдается только в development окружении.
func Errors(l *logrus.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]
		problem := NewProblem(firstErr, c.Request.URL.Path, development)

		if problem.Status == http.StatusInternalServerError && l != nil {
			l.WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).WithError(firstErr.Err).Error("unhandled request error")
		}

		if c.Writer.Written() {
			return
		}
		c.Header("Content-Type", ProblemContentType)
		c.JSON(problem.Status, problem)
		c.Abort()
	}
}
