package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/service/tokens"
	"github.com/fsdevblog/docswap/internal/transport/api/testutils"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	handlerSuite
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestRegister() {
	email := gofakeit.Email()
	valid := UserRegisterParams{Email: email, Username: gofakeit.Username(), Password: "password123"}

	s.userService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{
			Email:    valid.Email,
			Username: valid.Username,
			Password: valid.Password,
		}).
		Return(&domain.User{ID: 7, Email: email, Username: valid.Username, Role: domain.RoleUser}, nil)

	res := s.do(http.MethodPost, RouteGroup+RegisterRoute, testutils.JSONBody(valid), domain.Actor{})
	s.Require().Equal(http.StatusCreated, res.StatusCode)
	var user UserResponse
	s.Require().NoError(testutils.DecodeJSON(res, &user))
	s.Equal(int64(7), user.ID)
	s.False(user.EmailVerified)
}

func (s *AuthHandlerTestSuite) TestRegisterValidation() {
	s.userService.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

	cases := []struct {
		name       string
		params     UserRegisterParams
		wantFields []string
	}{
		{
			name:       "bad email and short password",
			params:     UserRegisterParams{Email: "not-an-email", Username: "reader", Password: "123"},
			wantFields: []string{"email", "password"},
		},
		{
			name: "username over byte limit",
			params: UserRegisterParams{
				Email:    gofakeit.Email(),
				Username: testutils.GenerateOverBytesUnderRunes(20),
				Password: "password123",
			},
			wantFields: []string{"username"},
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			res := s.do(http.MethodPost, RouteGroup+RegisterRoute, testutils.JSONBody(tc.params), domain.Actor{})
			p := s.problem(res, http.StatusBadRequest)
			s.Equal("validation_failed", p.Code)
			for _, f := range tc.wantFields {
				s.Contains(p.Errors, f)
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestRegisterDuplicate() {
	s.userService.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, domain.ErrConflict)

	params := UserRegisterParams{Email: gofakeit.Email(), Username: "reader", Password: "password123"}
	res := s.do(http.MethodPost, RouteGroup+RegisterRoute, testutils.JSONBody(params), domain.Actor{})
	p := s.problem(res, http.StatusConflict)
	s.Equal("conflict", p.Code)
	s.Equal(RouteGroup+RegisterRoute, p.Instance)
}

func (s *AuthHandlerTestSuite) TestLogin() {
	user := &domain.User{ID: 3, Email: gofakeit.Email(), Role: domain.RoleUser, EmailVerified: true}
	token, claims := s.tokenFor(domain.Actor{ID: user.ID, Role: user.Role})

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "all ok", wantStatus: http.StatusOK},
		{
			name:       "invalid credentials",
			err:        domain.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "invalid_credentials",
		},
		{
			name:       "email not verified",
			err:        domain.ErrEmailNotVerified,
			wantStatus: http.StatusForbidden,
			wantCode:   "email_not_verified",
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			call := s.userService.EXPECT().
				Login(gomock.Any(), service.LoginUserArgs{Email: user.Email, Password: "password123"})
			if tc.err != nil {
				call.Return(nil, tc.err)
			} else {
				call.Return(&service.AuthResult{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil)
			}

			body := testutils.JSONBody(UserLoginParams{Email: user.Email, Password: "password123"})
			res := s.do(http.MethodPost, RouteGroup+LoginRoute, body, domain.Actor{})
			if tc.err != nil {
				p := s.problem(res, tc.wantStatus)
				s.Equal(tc.wantCode, p.Code)
				return
			}

			s.Require().Equal(http.StatusOK, res.StatusCode)
			s.Equal("Bearer "+token, res.Header.Get("Authorization"))
			var auth AuthResponse
			s.Require().NoError(testutils.DecodeJSON(res, &auth))
			s.Equal(token, auth.Token)
			s.Equal(user.ID, auth.User.ID)
		})
	}
}

func (s *AuthHandlerTestSuite) TestVerify() {
	email := gofakeit.Email()
	s.userService.EXPECT().VerifyOTP(gomock.Any(), email, "000000").Return(nil, domain.ErrInvalidOTP)

	body := testutils.JSONBody(VerifyOTPParams{Email: email, Code: "000000"})
	p := s.problem(s.do(http.MethodPost, RouteGroup+VerifyRoute, body, domain.Actor{}), http.StatusUnauthorized)
	s.Equal("invalid_otp", p.Code)
}

func (s *AuthHandlerTestSuite) TestLogoutRevokesToken() {
	token, claims := s.tokenFor(buyer)

	s.userService.EXPECT().
		Logout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, c *tokens.UserClaims) error {
			s.Equal(claims.ID, c.ID)
			return s.revocations.Revoke(ctx, c.ID, c.ExpiresAt.Time)
		})

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + LogoutRoute,
	}, testutils.WithBearer(token))
	s.Require().NoError(err)
	s.Equal(http.StatusNoContent, res.StatusCode)
	s.closeBody(res)

	// тот же токен больше не принимается.
	res, err = testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + ProfileRoute,
	}, testutils.WithBearer(token))
	s.Require().NoError(err)
	p := s.problem(res, http.StatusUnauthorized)
	s.Equal("token_revoked", p.Code)
}

func (s *AuthHandlerTestSuite) TestProtectedRoutes() {
	expired := s.tokenConf
	expired.TTL = -time.Minute
	expiredToken, _, err := tokens.GenerateUserJWT(buyer.ID, buyer.Role, expired)
	s.Require().NoError(err)

	foreign := s.tokenConf
	foreign.Secret = []byte("another secret")
	foreignToken, _, err := tokens.GenerateUserJWT(buyer.ID, buyer.Role, foreign)
	s.Require().NoError(err)

	cases := []struct {
		name     string
		token    string
		wantCode string
	}{
		{name: "no token", wantCode: "unauthorized"},
		{name: "expired token", token: expiredToken, wantCode: "token_expired"},
		{name: "foreign signature", token: foreignToken, wantCode: "invalid_token"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			res, reqErr := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + OrdersRoute,
			}, testutils.WithBearer(tc.token))
			s.Require().NoError(reqErr)
			p := s.problem(res, http.StatusUnauthorized)
			s.Equal(tc.wantCode, p.Code)
		})
	}
}

func (s *AuthHandlerTestSuite) TestAdminRoutes() {
	s.userService.EXPECT().SetRole(gomock.Any(), admin, int64(5), domain.RoleAdmin).
		Return(&domain.User{ID: 5, Role: domain.RoleAdmin}, nil)

	roleParams := SetRoleParams{Role: "admin"}

	res := s.do(http.MethodPut, RouteGroup+"/admin/users/5/role", testutils.JSONBody(roleParams), buyer)
	p := s.problem(res, http.StatusForbidden)
	s.Equal("forbidden", p.Code)

	res = s.do(http.MethodPut, RouteGroup+"/admin/users/5/role", testutils.JSONBody(roleParams), admin)
	s.Require().Equal(http.StatusOK, res.StatusCode)
	var user UserResponse
	s.Require().NoError(testutils.DecodeJSON(res, &user))
	s.Equal(domain.RoleAdmin, user.Role)

	res = s.do(http.MethodPut, RouteGroup+"/admin/users/5/role",
		testutils.JSONBody(SetRoleParams{Role: "owner"}), admin)
	p = s.problem(res, http.StatusBadRequest)
	s.Contains(p.Errors, "role")
}
