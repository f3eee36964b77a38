package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile status constants
const (
	ProfileStatusActive    = "active"
	ProfileStatusSuspended = "suspended"
)

// Level change reasons recorded in LevelHistory
const (
	LevelChangeReasonPromotion     = "promotion"
	LevelChangeReasonExpiryUpgrade = "expiry_upgrade"
	LevelChangeReasonExpiryReset   = "expiry_reset"
)

// PartnerProfile is the per-user loyalty progression record. One row per
// user, created at enrollment and never hard-deleted; Status carries the
// soft lifecycle.
type PartnerProfile struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	LevelOrdinal     int            `json:"level_ordinal" gorm:"default:1"`
	LevelName        string         `json:"level_name"`
	LevelAchievedAt  time.Time      `json:"level_achieved_at"`
	TotalOrders      int            `json:"total_orders" gorm:"default:0"`
	OrdersThisLevel  int            `json:"orders_this_level" gorm:"default:0"`
	TotalSpent       float64        `json:"total_spent" gorm:"default:0"`
	LevelStartDate   time.Time      `json:"level_start_date"`
	ValidUntil       time.Time      `json:"valid_until" gorm:"index"`
	LastActivityDate time.Time      `json:"last_activity_date"`
	Status           string         `json:"status" gorm:"default:'active'"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	LevelHistory []LevelHistory     `json:"level_history,omitempty" gorm:"foreignKey:ProfileID"`
	Milestones   []PartnerMilestone `json:"milestones,omitempty" gorm:"foreignKey:ProfileID"`
	Tasks        []PartnerTask      `json:"tasks,omitempty" gorm:"foreignKey:ProfileID"`
	Jackpots     []PartnerJackpot   `json:"jackpots,omitempty" gorm:"foreignKey:ProfileID"`
	Offers       []PartnerOffer     `json:"offers,omitempty" gorm:"foreignKey:ProfileID"`
}

// LevelHistory is an append-only record of levels the partner has left.
// Rows are written on every promotion, expiry upgrade and expiry reset and
// are never updated afterwards.
type LevelHistory struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProfileID       uint      `json:"profile_id" gorm:"index;not null"`
	LevelOrdinal    int       `json:"level_ordinal"`
	LevelName       string    `json:"level_name"`
	AchievedAt      time.Time `json:"achieved_at"`
	EndedAt         time.Time `json:"ended_at"`
	OrdersCompleted int       `json:"orders_completed"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}
