package service

import (
	"fmt"
	"time"

	"github.com/gestortareas/api/config"
	"github.com/gestortareas/api/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the typed claims carried by a session token
type SessionClaims struct {
	UserID      uint   `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// JWTService issues and validates session tokens
type JWTService interface {
	GenerateToken(user *model.User) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*SessionClaims, error)
}

type jwtService struct {
	cfg config.JWTConfig
}

// NewJWTService creates a JWT service from configuration
func NewJWTService(cfg config.JWTConfig) JWTService {
	return &jwtService{cfg: cfg}
}

// GenerateToken signs a session token for the given account
func (s *jwtService) GenerateToken(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.Expiration)

	claims := SessionClaims{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a session token. Any failure mode
// (bad signature, wrong issuer or audience, expired, malformed) yields
// the same error; callers cannot distinguish them.
func (s *jwtService) ValidateToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(s.cfg.Secret), nil
		},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
