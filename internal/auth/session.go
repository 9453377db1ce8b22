package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated identity carried by a signed token.
type Session struct {
	ProfileID   string
	Email       string
	DisplayName string
	AvatarURL   string
}

var ErrInvalidSession = errors.New("invalid session")

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), ttl: 7 * 24 * time.Hour}
}

func (m *Manager) Issue(s Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    s.ProfileID,
		"email":  s.Email,
		"name":   s.DisplayName,
		"avatar": s.AvatarURL,
		"exp":    time.Now().Add(m.ttl).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (m *Manager) Verify(tokenStr string) (*Session, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, ErrInvalidSession
	}
	name, _ := claims["name"].(string)
	avatar, _ := claims["avatar"].(string)
	return &Session{ProfileID: sub, Email: email, DisplayName: name, AvatarURL: avatar}, nil
}
