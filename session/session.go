// Package session issues and verifies the signed tokens carried in the
// session cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingSecret = errors.New("session: signing secret is empty")
	ErrNoSubject     = errors.New("session: token has no valid user id")
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens with one process-wide secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is how long an issued token stays valid.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue returns a signed token for userID.
func (m *Manager) Issue(userID string) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, algorithm and expiry and returns the embedded
// user id.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("session: token is not valid")
	}
	if !primitive.IsValidObjectID(claims.UserID) {
		return "", ErrNoSubject
	}
	return claims.UserID, nil
}
