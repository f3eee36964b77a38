package utils

import (
	"time"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
)

// Catalog holds the reward rows generated for a profile at enrollment.
type Catalog struct {
	Milestones []models.PartnerMilestone
	Tasks      []models.PartnerTask
	Jackpots   []models.PartnerJackpot
	Offers     []models.PartnerOffer
}

// BuildCatalog generates the fixed milestone/task/jackpot set plus the offer
// superset for a profile entering at the given tier. A tier N profile
// receives the offers of tiers 1..N, each valid for the owning tier's
// validity window from generation time. The catalog is generated once;
// later promotions do not regenerate it.
func BuildCatalog(profileID uint, levelOrdinal int, cfg *config.LoyaltyConfig, now time.Time) *Catalog {
	catalog := &Catalog{}

	for _, m := range cfg.Milestones {
		catalog.Milestones = append(catalog.Milestones, models.PartnerMilestone{
			ProfileID:      profileID,
			OrderThreshold: m.OrderThreshold,
			Title:          m.Title,
			RewardAmount:   m.Reward,
		})
	}

	for _, t := range cfg.Tasks {
		catalog.Tasks = append(catalog.Tasks, models.PartnerTask{
			ProfileID:      profileID,
			TaskKey:        t.Key,
			Title:          t.Title,
			RewardAmount:   t.Reward,
			ProgressTarget: t.Target,
		})
	}

	for _, j := range cfg.Jackpots {
		catalog.Jackpots = append(catalog.Jackpots, models.PartnerJackpot{
			ProfileID:      profileID,
			SpendThreshold: j.SpendThreshold,
			Title:          j.Title,
			RewardAmount:   j.Reward,
		})
	}

	for _, tier := range cfg.Tiers {
		if tier.Ordinal > levelOrdinal {
			continue
		}
		validUntil := now.AddDate(0, 0, tier.OfferValidityDays)
		for _, offer := range tier.Offers {
			catalog.Offers = append(catalog.Offers, models.PartnerOffer{
				ProfileID:       profileID,
				OfferCode:       offer.Code,
				Title:           offer.Title,
				LevelOrdinal:    tier.Ordinal,
				DiscountPercent: offer.DiscountPercent,
				MaxDiscount:     offer.MaxDiscount,
				MinOrderValue:   offer.MinOrderValue,
				ValidFrom:       now,
				ValidUntil:      validUntil,
			})
		}
	}

	return catalog
}
