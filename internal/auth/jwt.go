package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"asset-inventory/internal/config"
)

// RoleAssetAdmin may create, update and delete assets
const RoleAssetAdmin = "asset_admin"

// Claims represents the JWT claims structure
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT operations
type JWTManager struct {
	secret   string
	issuer   string
	audience string
	expiry   time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret, issuer, audience string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
	}
}

// NewJWTManagerFromConfig creates a JWT manager from the shared token settings
func NewJWTManagerFromConfig(cfg config.JWTConfig) *JWTManager {
	return NewJWTManager(cfg.Secret, cfg.Issuer, cfg.Audience, cfg.Expiry)
}

// ValidateConfig checks that the manager can sign and verify tokens safely
func (j *JWTManager) ValidateConfig() error {
	return config.JWTConfig{
		Secret:   j.secret,
		Issuer:   j.issuer,
		Audience: j.audience,
		Expiry:   j.expiry,
	}.Validate()
}

// GenerateToken creates a new JWT token
func (j *JWTManager) GenerateToken(subject string, roles []string) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	now := time.Now()
	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Audience:  []string{j.audience},
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

// ValidateToken validates and parses a JWT token
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secret), nil
	}, jwt.WithIssuer(j.issuer), jwt.WithAudience(j.audience))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// HasRole checks if the caller has any of the required roles
func (c *Claims) HasRole(requiredRoles ...string) bool {
	for _, required := range requiredRoles {
		for _, userRole := range c.Roles {
			if userRole == required {
				return true
			}
		}
	}
	return false
}

// TokenSource supplies bearer tokens to outgoing requests
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a pre-issued token
type StaticToken string

// Token returns the token unchanged
func (s StaticToken) Token() (string, error) {
	return string(s), nil
}

// SigningSource mints tokens with a JWTManager and reuses one until it is
// close to expiry.
type SigningSource struct {
	manager *JWTManager
	subject string
	roles   []string

	mu      sync.Mutex
	current string
	renewAt time.Time
}

// NewSigningSource creates a token source for the given subject and roles
func NewSigningSource(manager *JWTManager, subject string, roles ...string) *SigningSource {
	return &SigningSource{manager: manager, subject: subject, roles: roles}
}

// Token returns a valid token, minting a new one when needed
func (s *SigningSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.current != "" && now.Before(s.renewAt) {
		return s.current, nil
	}
	token, err := s.manager.GenerateToken(s.subject, s.roles)
	if err != nil {
		return "", err
	}
	s.current = token
	// renew once 90% of the lifetime has passed
	s.renewAt = now.Add(s.manager.expiry * 9 / 10)
	return token, nil
}
