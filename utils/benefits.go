package utils

import (
	"github.com/platemate/partner-loyalty/config"
)

// OrderBenefits is the per-order benefit breakdown derived at checkout time.
type OrderBenefits struct {
	CashbackRate         float64  `json:"cashback_rate"`
	CashbackAmount       float64  `json:"cashback_amount"`
	EffectiveDeliveryFee float64  `json:"effective_delivery_fee"`
	DeliverySavings      float64  `json:"delivery_savings"`
	BirthdayDiscount     float64  `json:"birthday_discount"`
	TotalSavings         float64  `json:"total_savings"`
	AppliedBenefits      []string `json:"applied_benefits"`
}

// CalculateOrderBenefits maps the current tier and order context onto the
// cashback/delivery/birthday benefits. Stateless; tier may be nil for users
// without an active profile, who get the default cashback rate and nothing
// else.
func CalculateOrderBenefits(tier *config.TierConfig, cfg *config.LoyaltyConfig, subtotal, deliveryFee float64, isBirthdayMonth bool) OrderBenefits {
	benefits := OrderBenefits{
		EffectiveDeliveryFee: deliveryFee,
		AppliedBenefits:      []string{},
	}

	if tier == nil {
		benefits.CashbackRate = cfg.DefaultCashbackRate
		benefits.CashbackAmount = round2(subtotal * cfg.DefaultCashbackRate)
		benefits.TotalSavings = benefits.CashbackAmount
		if benefits.CashbackAmount > 0 {
			benefits.AppliedBenefits = append(benefits.AppliedBenefits, "default_cashback")
		}
		return benefits
	}

	benefits.CashbackRate = tier.Benefits.CashbackRate
	benefits.CashbackAmount = round2(subtotal * tier.Benefits.CashbackRate)
	if benefits.CashbackAmount > 0 {
		benefits.AppliedBenefits = append(benefits.AppliedBenefits, "cashback")
	}

	if tier.Benefits.DeliveryDiscountPercent > 0 && deliveryFee > 0 {
		benefits.DeliverySavings = round2(deliveryFee * tier.Benefits.DeliveryDiscountPercent / 100)
		benefits.EffectiveDeliveryFee = round2(deliveryFee - benefits.DeliverySavings)
		benefits.AppliedBenefits = append(benefits.AppliedBenefits, "delivery_discount")
	}

	if isBirthdayMonth && tier.Benefits.BirthdayDiscountPercent > 0 {
		benefits.BirthdayDiscount = round2(subtotal * tier.Benefits.BirthdayDiscountPercent / 100)
		benefits.AppliedBenefits = append(benefits.AppliedBenefits, "birthday_discount")
	}

	benefits.TotalSavings = round2(benefits.CashbackAmount + benefits.DeliverySavings + benefits.BirthdayDiscount)
	return benefits
}

// TxnBonusDue reports whether the periodic transaction bonus fires at the
// given order count. It is re-derived from the live counter every time
// rather than tracked separately, so it stays correct even if the counter is
// recomputed from an authoritative order source. Paying the bonus must go
// through an idempotency reference keyed on the multiple (see ApplyOrderDelivered).
func TxnBonusDue(tier *config.TierConfig, totalOrders int) (float64, bool) {
	if tier == nil || tier.Benefits.TxnBonusInterval <= 0 || totalOrders <= 0 {
		return 0, false
	}
	if totalOrders%tier.Benefits.TxnBonusInterval != 0 {
		return 0, false
	}
	return tier.Benefits.TxnBonusAmount, true
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
