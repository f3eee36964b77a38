package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// TierRequirements are what a partner must complete while at a tier to
// advance out of it: OrderCount delivered orders within WindowDays.
type TierRequirements struct {
	OrderCount int `yaml:"order_count" json:"order_count"`
	WindowDays int `yaml:"window_days" json:"window_days"`
}

// TierBenefits are the per-order and periodic benefits a tier grants.
type TierBenefits struct {
	CashbackRate            float64 `yaml:"cashback_rate" json:"cashback_rate"`
	DeliveryDiscountPercent float64 `yaml:"delivery_discount_percent" json:"delivery_discount_percent"`
	BirthdayDiscountPercent float64 `yaml:"birthday_discount_percent" json:"birthday_discount_percent"`
	TxnBonusInterval        int     `yaml:"txn_bonus_interval" json:"txn_bonus_interval"`
	TxnBonusAmount          float64 `yaml:"txn_bonus_amount" json:"txn_bonus_amount"`
}

// TierOffer is an offer template scoped to the tier that owns it.
type TierOffer struct {
	Code            string  `yaml:"code" json:"code"`
	Title           string  `yaml:"title" json:"title"`
	DiscountPercent float64 `yaml:"discount_percent" json:"discount_percent"`
	MaxDiscount     float64 `yaml:"max_discount" json:"max_discount"`
	MinOrderValue   float64 `yaml:"min_order_value" json:"min_order_value"`
}

// TierConfig describes one of the three loyalty tiers.
type TierConfig struct {
	Ordinal           int              `yaml:"ordinal" json:"ordinal"`
	Name              string           `yaml:"name" json:"name"`
	Requirements      TierRequirements `yaml:"requirements" json:"requirements"`
	Benefits          TierBenefits     `yaml:"benefits" json:"benefits"`
	OfferValidityDays int              `yaml:"offer_validity_days" json:"offer_validity_days"`
	Offers            []TierOffer      `yaml:"offers" json:"offers"`
}

// MilestoneConfig defines one order-count milestone of the fixed catalog.
type MilestoneConfig struct {
	OrderThreshold int     `yaml:"order_threshold" json:"order_threshold"`
	Title          string  `yaml:"title" json:"title"`
	Reward         float64 `yaml:"reward" json:"reward"`
}

// TaskConfig defines one catalog task.
type TaskConfig struct {
	Key    string  `yaml:"key" json:"key"`
	Title  string  `yaml:"title" json:"title"`
	Target int     `yaml:"target" json:"target"`
	Reward float64 `yaml:"reward" json:"reward"`
}

// JackpotConfig defines one spend-threshold jackpot tier.
type JackpotConfig struct {
	SpendThreshold float64 `yaml:"spend_threshold" json:"spend_threshold"`
	Title          string  `yaml:"title" json:"title"`
	Reward         float64 `yaml:"reward" json:"reward"`
}

// LoyaltyConfig is the immutable tier/catalog definition set. It is loaded
// once at process start and injected into the progression engine, the
// catalog generator and the benefits calculator; nothing mutates it after
// load.
type LoyaltyConfig struct {
	DefaultCashbackRate float64           `yaml:"default_cashback_rate" json:"default_cashback_rate"`
	Tiers               []TierConfig      `yaml:"tiers" json:"tiers"`
	Milestones          []MilestoneConfig `yaml:"milestones" json:"milestones"`
	Tasks               []TaskConfig      `yaml:"tasks" json:"tasks"`
	Jackpots            []JackpotConfig   `yaml:"jackpots" json:"jackpots"`
}

// Loyalty is the process-wide loyalty configuration, set by InitLoyaltyConfig.
var Loyalty *LoyaltyConfig

const defaultLoyaltyYAML = `
default_cashback_rate: 0.005

tiers:
  - ordinal: 1
    name: Bronze
    requirements:
      order_count: 15
      window_days: 44
    benefits:
      cashback_rate: 0.015
      delivery_discount_percent: 0
      birthday_discount_percent: 5
      txn_bonus_interval: 11
      txn_bonus_amount: 30
    offer_validity_days: 15
    offers:
      - code: BRONZE10
        title: "10% off one order"
        discount_percent: 10
        max_discount: 100
        min_order_value: 300
  - ordinal: 2
    name: Silver
    requirements:
      order_count: 30
      window_days: 60
    benefits:
      cashback_rate: 0.03
      delivery_discount_percent: 50
      birthday_discount_percent: 10
      txn_bonus_interval: 10
      txn_bonus_amount: 50
    offer_validity_days: 30
    offers:
      - code: SILVER15
        title: "15% off one order"
        discount_percent: 15
        max_discount: 200
        min_order_value: 300
      - code: SILVERSHIP
        title: "Free delivery weekend"
        discount_percent: 0
        max_discount: 60
        min_order_value: 0
  - ordinal: 3
    name: Gold
    requirements:
      order_count: 60
      window_days: 90
    benefits:
      cashback_rate: 0.05
      delivery_discount_percent: 100
      birthday_discount_percent: 15
      txn_bonus_interval: 8
      txn_bonus_amount: 100
    offer_validity_days: 45
    offers:
      - code: GOLD20
        title: "20% off one order"
        discount_percent: 20
        max_discount: 400
        min_order_value: 500
      - code: GOLDFEAST
        title: "Flat 250 off a feast order"
        discount_percent: 0
        max_discount: 250
        min_order_value: 1200

milestones:
  - order_threshold: 5
    title: "First five deliveries"
    reward: 50
  - order_threshold: 10
    title: "Ten orders strong"
    reward: 100
  - order_threshold: 25
    title: "Quarter century"
    reward: 250
  - order_threshold: 50
    title: "Half century"
    reward: 600
  - order_threshold: 100
    title: "Order centurion"
    reward: 1500

tasks:
  - key: profile_completion
    title: "Complete your profile"
    target: 1
    reward: 25
  - key: first_review
    title: "Write your first review"
    target: 1
    reward: 50
  - key: referral
    title: "Refer three friends"
    target: 3
    reward: 300
  - key: social_share
    title: "Share five orders"
    target: 5
    reward: 75

jackpots:
  - spend_threshold: 25000
    title: "Spend jackpot I"
    reward: 500
  - spend_threshold: 50000
    title: "Spend jackpot II"
    reward: 1250
  - spend_threshold: 100000
    title: "Spend jackpot III"
    reward: 3000
`

// InitLoyaltyConfig loads the tier/catalog definitions. When path is empty
// the embedded defaults are used.
func InitLoyaltyConfig(path string) error {
	cfg, err := LoadLoyaltyConfig(path)
	if err != nil {
		return err
	}
	Loyalty = cfg
	return nil
}

// LoadLoyaltyConfig parses and validates a loyalty configuration document.
func LoadLoyaltyConfig(path string) (*LoyaltyConfig, error) {
	data := []byte(defaultLoyaltyYAML)
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read loyalty config %s: %w", path, err)
		}
		data = fileData
	}

	var cfg LoyaltyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse loyalty config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sort.Slice(cfg.Tiers, func(i, j int) bool { return cfg.Tiers[i].Ordinal < cfg.Tiers[j].Ordinal })
	sort.Slice(cfg.Milestones, func(i, j int) bool { return cfg.Milestones[i].OrderThreshold < cfg.Milestones[j].OrderThreshold })
	sort.Slice(cfg.Jackpots, func(i, j int) bool { return cfg.Jackpots[i].SpendThreshold < cfg.Jackpots[j].SpendThreshold })

	return &cfg, nil
}

// Validate checks the structural invariants the engine relies on.
func (c *LoyaltyConfig) Validate() error {
	if len(c.Tiers) == 0 {
		return fmt.Errorf("loyalty config: no tiers defined")
	}
	seen := make(map[int]bool, len(c.Tiers))
	for _, tier := range c.Tiers {
		if tier.Ordinal < 1 || tier.Ordinal > len(c.Tiers) {
			return fmt.Errorf("loyalty config: tier ordinal %d out of range", tier.Ordinal)
		}
		if seen[tier.Ordinal] {
			return fmt.Errorf("loyalty config: duplicate tier ordinal %d", tier.Ordinal)
		}
		seen[tier.Ordinal] = true
		if tier.Requirements.WindowDays <= 0 {
			return fmt.Errorf("loyalty config: tier %d has no promotion window", tier.Ordinal)
		}
		if tier.Benefits.TxnBonusInterval < 0 {
			return fmt.Errorf("loyalty config: tier %d has negative bonus interval", tier.Ordinal)
		}
	}
	return nil
}

// Tier returns the tier with the given ordinal, or nil when out of range.
func (c *LoyaltyConfig) Tier(ordinal int) *TierConfig {
	for i := range c.Tiers {
		if c.Tiers[i].Ordinal == ordinal {
			return &c.Tiers[i]
		}
	}
	return nil
}

// NextTier returns the tier above the given ordinal, or nil at the top.
func (c *LoyaltyConfig) NextTier(ordinal int) *TierConfig {
	return c.Tier(ordinal + 1)
}

// MaxOrdinal returns the highest configured tier ordinal.
func (c *LoyaltyConfig) MaxOrdinal() int {
	max := 0
	for _, tier := range c.Tiers {
		if tier.Ordinal > max {
			max = tier.Ordinal
		}
	}
	return max
}

// Jackpot returns the jackpot definition for an exact spend threshold.
func (c *LoyaltyConfig) Jackpot(spendThreshold float64) *JackpotConfig {
	for i := range c.Jackpots {
		if c.Jackpots[i].SpendThreshold == spendThreshold {
			return &c.Jackpots[i]
		}
	}
	return nil
}
