package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims issued by the identity service
type Claims struct {
	Role  Role   `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a typed id
func (c *Claims) UserID() kernel.UserID {
	return kernel.UserID(c.Subject)
}

// JWTService verifies HS256 access tokens. Issuing tokens belongs to the
// identity service; GenerateAccessToken exists for tooling and tests.
type JWTService struct {
	secret []byte
	issuer string
}

func NewJWTService(secret, issuer string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// GenerateAccessToken signs a token for userID with the given role
func (s *JWTService) GenerateAccessToken(userID kernel.UserID, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken parses and verifies a token
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken()
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		reason := "invalid"
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			reason = "expired"
		case errors.Is(err, jwt.ErrTokenMalformed):
			reason = "malformed"
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			reason = "bad_signature"
		}
		return nil, ErrInvalidToken().WithCause(err).WithDetail("reason", reason)
	}
	if !token.Valid {
		return nil, ErrInvalidToken()
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken().WithDetail("reason", "missing_subject")
	}
	if !claims.Role.IsValid() {
		return nil, ErrInvalidToken().WithDetail("reason", "unknown_role")
	}
	return claims, nil
}
