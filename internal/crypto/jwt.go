package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Token types carried in the token_type claim. Access and refresh tokens
// are signed the same way but are not interchangeable.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents the JWT claims for PicStash authentication.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
}

// GenerateToken creates a signed JWT of the given type for the given user.
func GenerateToken(userID int64, tokenType, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "picstash",
			Audience:  jwt.ClaimStrings{"picstash-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    userID,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateTokenPair mints an access/refresh token pair bound to the given user.
func GenerateTokenPair(userID int64, secret string, accessExpiry, refreshExpiry time.Duration) (access, refresh string, err error) {
	access, err = GenerateToken(userID, TokenTypeAccess, secret, accessExpiry)
	if err != nil {
		return "", "", err
	}
	refresh, err = GenerateToken(userID, TokenTypeRefresh, secret, refreshExpiry)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ValidateToken parses and validates a JWT, returning the claims if the
// signature, expiry, and token type all check out. Expired tokens yield
// ErrTokenExpired; anything else invalid yields ErrInvalidToken.
func ValidateToken(tokenString, secret, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer("picstash"), jwt.WithAudience("picstash-api"))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
