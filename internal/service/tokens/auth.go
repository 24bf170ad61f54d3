package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Config параметры подписи и проверки токенов пользователей.
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

type UserClaims struct {
	jwt.RegisteredClaims
	UserID int64       `json:"uid"`
	Role   domain.Role `json:"role"`
}

// Actor возвращает пользователя, от имени которого выдан токен.
func (c *UserClaims) Actor() domain.Actor {
	return domain.Actor{ID: c.UserID, Role: c.Role}
}

// GenerateUserJWT выпускает токен с уникальным jti. Возвращает подписанный токен и его claims.
func GenerateUserJWT(userID int64, role domain.Role, conf Config) (string, *UserClaims, error) {
	now := time.Now()
	claims := &UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    conf.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.TTL)),
		},
		UserID: userID,
		Role:   role,
	}
	if conf.Audience != "" {
		claims.Audience = jwt.ClaimStrings{conf.Audience}
	}

	token, err := generateJWT(claims, conf.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("generating user jwt token: %s", err.Error())
	}
	return token, claims, nil
}

// ValidateUserJWT проверяет подпись, срок действия, издателя и аудиторию токена.
func ValidateUserJWT(tokenString string, conf Config) (*UserClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if conf.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(conf.Issuer))
	}
	if conf.Audience != "" {
		opts = append(opts, jwt.WithAudience(conf.Audience))
	}

	token, err := validateJWT(tokenString, new(UserClaims), conf.Secret, opts...)
	if err != nil {
		return nil, fmt.Errorf("validating user jwt token: %w", err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || claims.ID == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJWT(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("generating jwt token: %s", err.Error())
	}

	return tokenString, nil
}

func validateJWT(tokenString string, claims jwt.Claims, key []byte, opts ...jwt.ParserOption) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	return token, nil
}
