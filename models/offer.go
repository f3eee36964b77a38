package models

import (
	"time"
)

// PartnerOffer is a level-scoped discount offer granted at enrollment.
// A profile at level N holds the offers of levels 1..N, each with a validity
// window scaled to the owning level. Claiming issues a voucher code exactly
// once.
type PartnerOffer struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProfileID       uint       `json:"profile_id" gorm:"index;not null"`
	OfferCode       string     `json:"offer_code" gorm:"not null"`
	Title           string     `json:"title"`
	LevelOrdinal    int        `json:"level_ordinal"`
	DiscountPercent float64    `json:"discount_percent"`
	MaxDiscount     float64    `json:"max_discount"`
	MinOrderValue   float64    `json:"min_order_value"`
	ValidFrom       time.Time  `json:"valid_from"`
	ValidUntil      time.Time  `json:"valid_until"`
	Claimed         bool       `json:"claimed" gorm:"default:false"`
	ClaimedAt       *time.Time `json:"claimed_at"`
	VoucherCode     string     `json:"voucher_code"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
