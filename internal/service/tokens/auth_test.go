package tokens

import (
	"testing"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/stretchr/testify/suite"
)

type TokensTestSuite struct {
	suite.Suite
	conf Config
}

func TestTokensSuite(t *testing.T) {
	suite.Run(t, new(TokensTestSuite))
}

func (s *TokensTestSuite) SetupTest() {
	s.conf = Config{
		Secret:   []byte("secret"),
		Issuer:   "docswap",
		Audience: "docswap-api",
		TTL:      time.Hour,
	}
}

func (s *TokensTestSuite) TestGenerateAndValidate() {
	token, claims, err := GenerateUserJWT(42, domain.RoleAdmin, s.conf)
	s.Require().NoError(err)
	s.NotEmpty(claims.ID)

	parsed, err := ValidateUserJWT(token, s.conf)
	s.Require().NoError(err)
	s.Equal(int64(42), parsed.UserID)
	s.Equal(domain.RoleAdmin, parsed.Role)
	s.Equal(claims.ID, parsed.ID)
	s.True(parsed.Actor().IsAdmin())
}

func (s *TokensTestSuite) TestUniqueJTI() {
	_, c1, err := GenerateUserJWT(1, domain.RoleUser, s.conf)
	s.Require().NoError(err)
	_, c2, err := GenerateUserJWT(1, domain.RoleUser, s.conf)
	s.Require().NoError(err)
	s.NotEqual(c1.ID, c2.ID)
}

func (s *TokensTestSuite) TestValidateErrors() {
	expiredConf := s.conf
	expiredConf.TTL = -time.Minute
	expired, _, err := GenerateUserJWT(1, domain.RoleUser, expiredConf)
	s.Require().NoError(err)

	valid, _, err := GenerateUserJWT(1, domain.RoleUser, s.conf)
	s.Require().NoError(err)

	otherAudience := s.conf
	otherAudience.Audience = "other"

	otherSecret := s.conf
	otherSecret.Secret = []byte("other")

	cases := []struct {
		name    string
		token   string
		conf    Config
		wantErr error
	}{
		{name: "expired", token: expired, conf: s.conf, wantErr: ErrTokenExpired},
		{name: "wrong audience", token: valid, conf: otherAudience, wantErr: ErrInvalidToken},
		{name: "wrong secret", token: valid, conf: otherSecret, wantErr: ErrInvalidToken},
		{name: "garbage", token: "not.a.token", conf: s.conf, wantErr: ErrInvalidToken},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, vErr := ValidateUserJWT(tc.token, tc.conf)
			s.Require().ErrorIs(vErr, tc.wantErr)
		})
	}
}
