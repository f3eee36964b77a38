package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a partner-facing user account. Registration, login and OTP
// verification happen in the accounts service; this row only mirrors what the
// loyalty engine needs to resolve tokens and birthday benefits.
type User struct {
	gorm.Model
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone"`
	IsBlocked     bool      `json:"is_blocked"`
	BirthdayMonth int       `json:"birthday_month" gorm:"default:0"` // 1-12, 0 when unknown
	LastLoginAt   time.Time `json:"last_login_at"`
	Wallet        Wallet    `json:"wallet,omitempty" gorm:"foreignKey:UserID"`
}
