package helper

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signature, malformed token, and expiry alike.
// Callers must not learn which; the detail is for server-side logs only.
var ErrInvalidToken = errors.New("invalid token")

// Auth mints and validates the two bearer token classes. Access and refresh
// tokens are signed with independent secrets so a leaked secret of one class
// cannot forge the other.
type Auth struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func SetupAuth(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) Auth {
	return Auth{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Claims is the decoded view handed to callers.
type Claims struct {
	UserID   uint
	IssuedAt time.Time
}

func (a Auth) SignAccess(userID uint) (string, error) {
	return a.sign(userID, a.accessSecret, a.accessTTL)
}

func (a Auth) SignRefresh(userID uint) (string, error) {
	return a.sign(userID, a.refreshSecret, a.refreshTTL)
}

// IssuePair signs both token classes for the user.
func (a Auth) IssuePair(userID uint) (accessToken, refreshToken string, err error) {
	accessToken, err = a.SignAccess(userID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = a.SignRefresh(userID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (a Auth) VerifyAccess(token string) (*Claims, error) {
	return a.verify(token, a.accessSecret)
}

func (a Auth) VerifyRefresh(token string) (*Claims, error) {
	return a.verify(token, a.refreshSecret)
}

func (a Auth) sign(userID uint, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("unable to sign token: %w", err)
	}
	return signed, nil
}

func (a Auth) verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:   uint(userID),
		IssuedAt: claims.IssuedAt.Time,
	}, nil
}
