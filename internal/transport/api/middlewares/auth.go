package middlewares

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

var ErrTokenNotExist = errors.New("token not exist")

const (
	CurrentUserIDKey = "currentUserID"
	CurrentClaimsKey = "currentClaims"
)

// RevocationChecker проверяет, не отозван ли токен с данным jti.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его. Если токен не передан,
// вернется ошибка ErrTokenNotExist.
func checkAuthorization(c *gin.Context, conf tokens.Config) (*tokens.UserClaims, error) {
	const bearer = "Bearer "
	tokenHeader := c.GetHeader("Authorization")

	if !strings.HasPrefix(tokenHeader, bearer) || len(tokenHeader) == len(bearer) {
		return nil, ErrTokenNotExist
	}

	claims, err := tokens.ValidateUserJWT(tokenHeader[len(bearer):], conf)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}
	return claims, nil
}

// AuthRequired проверяет, что запрос авторизован действующим и не отозванным токеном. Записывает в контекст
// id юзера (CurrentUserIDKey) и claims токена (CurrentClaimsKey).
func AuthRequired(conf tokens.Config, revocations RevocationChecker) gin.HandlerFunc {
	return authenticate(conf, revocations, false)
}

// AuthOptional пропускает запросы без токена как анонимные. Переданный токен проверяется так же,
// как в AuthRequired.
func AuthOptional(conf tokens.Config, revocations RevocationChecker) gin.HandlerFunc {
	return authenticate(conf, revocations, true)
}

func authenticate(conf tokens.Config, revocations RevocationChecker, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := checkAuthorization(c, conf)
		if err != nil {
			if errors.Is(err, ErrTokenNotExist) {
				if optional {
					c.Next()
					return
				}
				err = domain.ErrUnauthorized
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		revoked, revErr := revocations.IsRevoked(c, claims.ID)
		if revErr != nil {
			_ = c.Error(fmt.Errorf("check token revocation: %w", revErr))
			c.Abort()
			return
		}
		if revoked {
			_ = c.Error(domain.ErrTokenRevoked)
			c.Abort()
			return
		}

		c.Set(CurrentUserIDKey, claims.UserID)
		c.Set(CurrentClaimsKey, claims)
		c.Next()
	}
}

// AdminRequired пропускает только администраторов. Должен стоять после AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			_ = c.Error(domain.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.Role != domain.RoleAdmin {
			_ = c.Error(domain.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentClaims claims токена текущего запроса или nil, если запрос не прошел AuthRequired.
func CurrentClaims(c *gin.Context) *tokens.UserClaims {
	v, exist := c.Get(CurrentClaimsKey)
	if !exist {
		return nil
	}
	claims, _ := v.(*tokens.UserClaims)
	return claims
}

// CurrentActor пользователь, от имени которого выполняется запрос. Для неавторизованного запроса
// возвращается пустой Actor.
func CurrentActor(c *gin.Context) domain.Actor {
	claims := CurrentClaims(c)
	if claims == nil {
		return domain.Actor{}
	}
	return claims.Actor()
}
