// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultCoins is granted to every new account.
	DefaultCoins = 50
)

// User represents an account in the feed.
type User struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FirstName string          `gorm:"not null" json:"firstName"`
	LastName  string          `gorm:"not null" json:"lastName"`
	Username  string          `gorm:"uniqueIndex;not null" json:"username"`
	Email     string          `gorm:"uniqueIndex;not null" json:"email"`
	Password  string          `gorm:"not null" json:"-"`
	Avatar    string          `json:"avatar"`
	Coins     int             `gorm:"not null;default:50" json:"coins"`
	Balance   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewUser builds a user with every default assigned. passwordHash must already be hashed.
func NewUser(firstName, lastName, username, email, passwordHash string) *User {
	return &User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Username:  username,
		Email:     NormalizeEmail(email),
		Password:  passwordHash,
		Coins:     DefaultCoins,
		Balance:   decimal.Zero,
	}
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserSummary is the public projection of a user joined into feed responses.
type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
}

// Summary returns the public projection of u. Email and password never leave through it.
func (u *User) Summary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Avatar:    u.Avatar,
	}
}
