package models

import (
	"time"
)

// PartnerJackpot is a one-time reward unlocked at a cumulative spend
// threshold, with the same achieve-once/claim-once discipline as milestones
// but keyed on TotalSpent.
type PartnerJackpot struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProfileID      uint       `json:"profile_id" gorm:"index;not null;uniqueIndex:idx_jackpot_profile_threshold"`
	SpendThreshold float64    `json:"spend_threshold" gorm:"not null;uniqueIndex:idx_jackpot_profile_threshold"`
	Title          string     `json:"title"`
	RewardAmount   float64    `json:"reward_amount"`
	Achieved       bool       `json:"achieved" gorm:"default:false"`
	AchievedAt     *time.Time `json:"achieved_at"`
	ClaimedAt      *time.Time `json:"claimed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
