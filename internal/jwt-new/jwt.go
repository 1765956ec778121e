package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
)

var ErrEmptySecret = errors.New("jwt secret is empty")

// NewToken подписывает токен с идентификатором и ролью пользователя.
// Токены выпускает внешний сервис аутентификации, здесь это нужно для локальной отладки и тестов.
func NewToken(userID uuid.UUID, role models.Role, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role.String(),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
