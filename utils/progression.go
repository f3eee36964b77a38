package utils

import (
	"time"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
)

// ExpiryOutcome is the result of resolving an elapsed promotion window.
type ExpiryOutcome string

const (
	ExpiryOutcomeNone     ExpiryOutcome = "none"
	ExpiryOutcomeUpgraded ExpiryOutcome = "upgraded"
	ExpiryOutcomeReset    ExpiryOutcome = "reset"
)

// DaysSince returns whole days elapsed from start to now.
func DaysSince(start, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	return int(now.Sub(start).Hours() / 24)
}

// CanPromote reports whether the profile qualifies for voluntary promotion:
// the current tier's order requirement is met and the promotion window has
// not elapsed. Both gates are evaluated from stored fields at call time.
func CanPromote(profile *models.PartnerProfile, cfg *config.LoyaltyConfig, now time.Time) bool {
	tier := cfg.Tier(profile.LevelOrdinal)
	if tier == nil || cfg.NextTier(profile.LevelOrdinal) == nil {
		return false
	}
	if profile.OrdersThisLevel < tier.Requirements.OrderCount {
		return false
	}
	return DaysSince(profile.LevelStartDate, now) <= tier.Requirements.WindowDays
}

// Promote advances the profile to the next tier. It mutates the in-memory
// struct only; the caller persists the profile and the returned history row
// in one transaction. Returns false without touching the profile when the
// promotion gates are not met or the top tier is reached.
func Promote(profile *models.PartnerProfile, cfg *config.LoyaltyConfig, now time.Time) (*models.LevelHistory, bool) {
	if !CanPromote(profile, cfg, now) {
		return nil, false
	}
	return advanceLevel(profile, cfg, now, models.LevelChangeReasonPromotion), true
}

// IsExpired reports whether the profile's promotion window has elapsed.
func IsExpired(profile *models.PartnerProfile, now time.Time) bool {
	return now.After(profile.ValidUntil)
}

// ResolveExpiry resolves an elapsed promotion window. Unlike CanPromote it
// gates on the order count alone: the window has already passed, so only the
// count requirement remains meaningful. Count met -> auto-upgrade with the
// same effect as a voluntary promotion; not met -> reset the current tier's
// window, discarding unmet progress. No-op while the window is still open.
func ResolveExpiry(profile *models.PartnerProfile, cfg *config.LoyaltyConfig, now time.Time) (*models.LevelHistory, ExpiryOutcome) {
	if !IsExpired(profile, now) {
		return nil, ExpiryOutcomeNone
	}

	tier := cfg.Tier(profile.LevelOrdinal)
	if tier == nil {
		return nil, ExpiryOutcomeNone
	}

	if cfg.NextTier(profile.LevelOrdinal) != nil && profile.OrdersThisLevel >= tier.Requirements.OrderCount {
		return advanceLevel(profile, cfg, now, models.LevelChangeReasonExpiryUpgrade), ExpiryOutcomeUpgraded
	}

	history := &models.LevelHistory{
		ProfileID:       profile.ID,
		LevelOrdinal:    profile.LevelOrdinal,
		LevelName:       profile.LevelName,
		AchievedAt:      profile.LevelAchievedAt,
		EndedAt:         now,
		OrdersCompleted: profile.OrdersThisLevel,
		Reason:          models.LevelChangeReasonExpiryReset,
	}

	profile.OrdersThisLevel = 0
	profile.LevelStartDate = now
	profile.ValidUntil = now.AddDate(0, 0, tier.Requirements.WindowDays)

	return history, ExpiryOutcomeReset
}

// advanceLevel moves the profile up one tier and returns the history row for
// the level being left. Level ordinals only ever increase.
func advanceLevel(profile *models.PartnerProfile, cfg *config.LoyaltyConfig, now time.Time, reason string) *models.LevelHistory {
	next := cfg.NextTier(profile.LevelOrdinal)

	history := &models.LevelHistory{
		ProfileID:       profile.ID,
		LevelOrdinal:    profile.LevelOrdinal,
		LevelName:       profile.LevelName,
		AchievedAt:      profile.LevelAchievedAt,
		EndedAt:         now,
		OrdersCompleted: profile.OrdersThisLevel,
		Reason:          reason,
	}

	profile.LevelOrdinal = next.Ordinal
	profile.LevelName = next.Name
	profile.LevelAchievedAt = now
	profile.OrdersThisLevel = 0
	profile.LevelStartDate = now
	profile.ValidUntil = now.AddDate(0, 0, next.Requirements.WindowDays)

	return history
}
