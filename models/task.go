package models

import (
	"time"
)

// Task keys supplied by collaborator services via the task-progress event
const (
	TaskKeyProfileCompletion = "profile_completion"
	TaskKeyFirstReview       = "first_review"
	TaskKeyReferral          = "referral"
	TaskKeySocialShare       = "social_share"
)

// PartnerTask tracks progress toward a one-time task reward. Completed flips
// once ProgressCurrent reaches ProgressTarget and never reverts.
type PartnerTask struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProfileID       uint       `json:"profile_id" gorm:"index;not null;uniqueIndex:idx_task_profile_key"`
	TaskKey         string     `json:"task_key" gorm:"not null;uniqueIndex:idx_task_profile_key"`
	Title           string     `json:"title"`
	RewardAmount    float64    `json:"reward_amount"`
	ProgressCurrent int        `json:"progress_current" gorm:"default:0"`
	ProgressTarget  int        `json:"progress_target" gorm:"not null"`
	Completed       bool       `json:"completed" gorm:"default:false"`
	CompletedAt     *time.Time `json:"completed_at"`
	Claimed         bool       `json:"claimed" gorm:"default:false"`
	ClaimedAt       *time.Time `json:"claimed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
