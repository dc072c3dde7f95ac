package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"       json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BeforeCreate assigns the id on insert so that lookups by email are not
// narrowed by a fresh primary key.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// AuthSession is one issued login. Only the hash of the refresh token is
// stored.
type AuthSession struct {
	ID               string `gorm:"primaryKey;size:36"  json:"id"`
	UserID           string `gorm:"index;not null"      json:"user_id"`
	RefreshTokenHash string `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt        int64  `gorm:"not null"            json:"expires_at"`
	Revoked          bool   `gorm:"default:false"       json:"revoked"`
	CreatedAt        time.Time
}

func All() []any {
	return []any{&User{}, &AuthSession{}}
}
