package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenManager handles issuing and validating member JWTs.
type TokenManager struct {
	secret  []byte
	method  *jwt.SigningMethodHMAC
	userTTL time.Duration
	sudoTTL time.Duration
}

// NewTokenManager builds a manager for an HMAC algorithm such as HS256.
// Lifetimes are in seconds.
func NewTokenManager(secret, algorithm string, userTTLSeconds, sudoTTLSeconds int) (*TokenManager, error) {
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if userTTLSeconds <= 0 {
		userTTLSeconds = 86400
	}
	if sudoTTLSeconds <= 0 {
		sudoTTLSeconds = userTTLSeconds
	}
	return &TokenManager{
		secret:  []byte(secret),
		method:  method,
		userTTL: time.Duration(userTTLSeconds) * time.Second,
		sudoTTL: time.Duration(sudoTTLSeconds) * time.Second,
	}, nil
}

// Claims describes the member token payload.
type Claims struct {
	UserID string `json:"id"`
	Sudo   bool   `json:"sudo,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a token for the member.
func (tm *TokenManager) GenerateToken(userID string, sudo bool) (string, time.Time, error) {
	ttl := tm.userTTL
	if sudo {
		ttl = tm.sudoTTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		Sudo:   sudo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(tm.method, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != tm.method {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
