// Package auth reads the sessions written by the external auth service
// and resolves the acting user of a request.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/food-delivery-api/models"
	"gorm.io/gorm"
)

var (
	ErrNoCredentials  = errors.New("not authenticated")
	ErrInvalidSession = errors.New("invalid session")
)

// Identity is what a valid session token resolves to.
type Identity struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionStore interface {
	Lookup(ctx context.Context, token string) (Identity, error)
}

// DBSessions looks tokens up in the sessions table.
type DBSessions struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDBSessions(db *gorm.DB) *DBSessions {
	return &DBSessions{DB: db, Now: time.Now}
}

func (s *DBSessions) Lookup(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoCredentials
	}
	var session models.Session
	err := s.DB.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, ErrInvalidSession
	}
	if err != nil {
		return Identity{}, err
	}
	if session.UserID == "" || session.Expired(s.Now()) {
		return Identity{}, ErrInvalidSession
	}
	return Identity{UserID: session.UserID, ExpiresAt: session.ExpiresAt}, nil
}
