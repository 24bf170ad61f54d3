package middlewares

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/service/tokens"
	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProblem(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("listing 1: %w", domain.ErrRecordNotFound), http.StatusNotFound, "not_found"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"concurrency", fmt.Errorf("save: %w", domain.ErrConcurrency), http.StatusConflict, "concurrency"},
		{
			"invalid transition",
			domain.NewInvalidTransitionError(domain.StatusDomainListing, "Sold", "Active"),
			http.StatusConflict,
			"invalid_transition",
		},
		{"duplicate key", domain.ErrDuplicateKey, http.StatusConflict, "conflict"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "conflict"},
		{"revoked", domain.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked"},
		{"expired", fmt.Errorf("check authorization: %w", tokens.ErrTokenExpired), http.StatusUnauthorized, "token_expired"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"unhandled", errors.New("connection reset by peer"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProblem(&gin.Error{Err: tc.err, Type: gin.ErrorTypePrivate}, "/api/x", false)
			assert.Equal(t, tc.wantStatus, p.Status)
			assert.Equal(t, tc.wantCode, p.Code)
			assert.Equal(t, http.StatusText(tc.wantStatus), p.Title)
			assert.Equal(t, "/api/x", p.Instance)
			assert.Nil(t, p.Errors)
		})
	}
}

func TestNewProblemDetail(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantDetail string
	}{
		{
			name:       "repository not found",
			err:        fmt.Errorf("cancelling listing 5: %w", pkgerrors.Wrapf(domain.ErrRecordNotFound, "[repository/finding listing 5]")),
			wantDetail: domain.ErrRecordNotFound.Error(),
		},
		{
			name: "repository duplicate key",
			err: pkgerrors.Wrapf(domain.ErrDuplicateKey,
				"[repository/creating review] ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"),
			wantDetail: domain.ErrDuplicateKey.Error(),
		},
		{
			name:       "service message is kept",
			err:        fmt.Errorf("review 3 belongs to another user: %w", domain.ErrForbidden),
			wantDetail: "review 3 belongs to another user: " + domain.ErrForbidden.Error(),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProblem(&gin.Error{Err: tc.err, Type: gin.ErrorTypePrivate}, "/api/x", false)
			assert.Equal(t, tc.wantDetail, p.Detail)
			assert.NotContains(t, p.Detail, "repository")
		})
	}
}

func TestNewProblemValidation(t *testing.T) {
	verr := domain.NewValidationError("price", "must be greater than 0")
	verr.Add("quantity", "must be at least 1")

	p := NewProblem(&gin.Error{Err: fmt.Errorf("create listing: %w", verr)}, "/api/listings", false)
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "validation_failed", p.Code)
	assert.Equal(t, map[string][]string{
		"price":    {"must be greater than 0"},
		"quantity": {"must be at least 1"},
	}, p.Errors)
}

func TestErrorsRedactsUnhandled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name        string
		development bool
		wantDetail  string
	}{
		{name: "production", development: false, wantDetail: redactedDetail},
		{name: "development", development: true, wantDetail: "pool closed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			l := logrus.New()
			l.SetOutput(&logs)
			l.SetFormatter(new(logrus.JSONFormatter))

			r := gin.New()
			r.Use(Errors(l, tc.development))
			r.GET("/boom", func(c *gin.Context) {
				_ = c.Error(errors.New("pool closed"))
				c.Abort()
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, ProblemContentType, rec.Header().Get("Content-Type"))

			var p Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.Equal(t, tc.wantDetail, p.Detail)
			assert.Equal(t, "/boom", p.Instance)

			// полный текст ошибки всегда попадает в лог.
			assert.Contains(t, logs.String(), "pool closed")
		})
	}
}

func TestAdminRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		claims     *tokens.UserClaims
		wantStatus int
	}{
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
		{name: "user", claims: &tokens.UserClaims{UserID: 1, Role: domain.RoleUser}, wantStatus: http.StatusForbidden},
		{name: "admin", claims: &tokens.UserClaims{UserID: 2, Role: domain.RoleAdmin}, wantStatus: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Errors(nil, false))
			r.Use(func(c *gin.Context) {
				if tc.claims != nil {
					c.Set(CurrentClaimsKey, tc.claims)
				}
			})
			r.GET("/admin", AdminRequired(), func(c *gin.Context) {
				assert.Equal(t, tc.claims.Actor(), CurrentActor(c))
				c.Status(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
