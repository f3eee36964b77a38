package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLoyaltyConfigDefaults(t *testing.T) {
	cfg, err := LoadLoyaltyConfig("")
	require.NoError(t, err)

	assert.Len(t, cfg.Tiers, 3)
	assert.Equal(t, "Bronze", cfg.Tier(1).Name)
	assert.Equal(t, "Silver", cfg.Tier(2).Name)
	assert.Equal(t, "Gold", cfg.Tier(3).Name)
	assert.Equal(t, 3, cfg.MaxOrdinal())

	assert.Equal(t, 15, cfg.Tier(1).Requirements.OrderCount)
	assert.Equal(t, 44, cfg.Tier(1).Requirements.WindowDays)
	assert.Equal(t, 11, cfg.Tier(1).Benefits.TxnBonusInterval)

	assert.Len(t, cfg.Milestones, 5)
	assert.Len(t, cfg.Tasks, 4)
	assert.Len(t, cfg.Jackpots, 3)
	assert.Equal(t, 0.005, cfg.DefaultCashbackRate)
}

func TestLoadLoyaltyConfigFromFile(t *testing.T) {
	doc := `
default_cashback_rate: 0.01
tiers:
  - ordinal: 1
    name: Starter
    requirements:
      order_count: 5
      window_days: 30
    benefits:
      cashback_rate: 0.02
      txn_bonus_interval: 4
      txn_bonus_amount: 20
    offer_validity_days: 10
milestones:
  - order_threshold: 3
    title: "Three orders"
    reward: 30
`
	path := filepath.Join(t.TempDir(), "loyalty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadLoyaltyConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Tiers, 1)
	assert.Equal(t, "Starter", cfg.Tier(1).Name)
	assert.Equal(t, 0.01, cfg.DefaultCashbackRate)
}

func TestLoadLoyaltyConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no tiers", `default_cashback_rate: 0.01`},
		{"duplicate ordinal", `
tiers:
  - ordinal: 1
    name: A
    requirements: {order_count: 1, window_days: 10}
  - ordinal: 1
    name: B
    requirements: {order_count: 2, window_days: 10}
`},
		{"ordinal out of range", `
tiers:
  - ordinal: 5
    name: A
    requirements: {order_count: 1, window_days: 10}
`},
		{"missing window", `
tiers:
  - ordinal: 1
    name: A
    requirements: {order_count: 1, window_days: 0}
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "loyalty.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.doc), 0o644))
			_, err := LoadLoyaltyConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestTierLookups(t *testing.T) {
	cfg, err := LoadLoyaltyConfig("")
	require.NoError(t, err)

	assert.Nil(t, cfg.Tier(0))
	assert.Nil(t, cfg.Tier(4))
	assert.Equal(t, "Silver", cfg.NextTier(1).Name)
	assert.Nil(t, cfg.NextTier(3))

	require.NotNil(t, cfg.Jackpot(25000))
	assert.Equal(t, 500.0, cfg.Jackpot(25000).Reward)
	assert.Nil(t, cfg.Jackpot(10000))
}
