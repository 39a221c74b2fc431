package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type AuthService interface {
	GenerateToken(identity string) (string, error)
	ParseToken(token string) (string, error)
}

type authService struct {
	secretKey []byte
	now       func() time.Time
}

func NewAuthService(secretKey string) AuthService {
	return &authService{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

// GenerateToken signs a token whose subject is the player identity.
func (that *authService) GenerateToken(identity string) (string, error) {
	now := that.now()

	claims := jwt.RegisteredClaims{
		Subject:   identity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(that.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ParseToken validates the token and returns the identity it was issued for.
func (that *authService) ParseToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return that.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(that.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
