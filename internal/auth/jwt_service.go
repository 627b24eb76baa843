package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenExpiry is the duration for which access tokens are valid.
// Session liveness is tracked separately and is much shorter.
const AccessTokenExpiry = 12 * time.Hour

// Claims represents JWT claims.
type Claims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Secret returns the signing key, for middleware that verifies tokens itself.
func (s *JWTService) Secret() []byte {
	return s.secret
}

// GenerateAccessToken generates a new access token for the user. Every token
// carries a unique ID so it can be revoked on logout.
func (s *JWTService) GenerateAccessToken(userID uint, name string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        generateTokenID(),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// RemainingLifetime returns how long claims stay valid, never negative.
func (s *JWTService) RemainingLifetime(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	if d := claims.ExpiresAt.Sub(s.now()); d > 0 {
		return d
	}
	return 0
}

func generateTokenID() string {
	return uuid.New().String()
}
