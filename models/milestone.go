package models

import (
	"time"
)

// PartnerMilestone is a one-time reward unlocked at a cumulative order-count
// threshold. Achieved flips false->true exactly once when TotalOrders crosses
// OrderThreshold; ClaimedAt is set at most once by the claim coordinator.
type PartnerMilestone struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProfileID      uint       `json:"profile_id" gorm:"index;not null;uniqueIndex:idx_milestone_profile_threshold"`
	OrderThreshold int        `json:"order_threshold" gorm:"not null;uniqueIndex:idx_milestone_profile_threshold"`
	Title          string     `json:"title"`
	RewardAmount   float64    `json:"reward_amount"`
	Achieved       bool       `json:"achieved" gorm:"default:false"`
	AchievedAt     *time.Time `json:"achieved_at"`
	ClaimedAt      *time.Time `json:"claimed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
