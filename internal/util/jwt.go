package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DownloadClaims is the payload of a short-lived exam download token.
// The token pins one filename to one user so links cannot be reused
// for other files or shared past their expiry.
type DownloadClaims struct {
	ComputingID string `json:"computing_id"`
	Filename    string `json:"filename"`
	jwt.RegisteredClaims
}

// GenerateDownloadToken signs a token granting computingID access to
// filename for ttl.
func GenerateDownloadToken(secret, computingID, filename string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	now := time.Now()
	claims := &DownloadClaims{
		ComputingID: computingID,
		Filename:    filename,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseDownloadToken verifies a download token and returns its claims.
func ParseDownloadToken(secret, tokenStr string) (*DownloadClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &DownloadClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*DownloadClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
