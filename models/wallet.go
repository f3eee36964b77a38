package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet represents a user's wallet
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex"`
	Balance   float64        `json:"balance" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WalletTransaction is an immutable ledger entry for a wallet. Reference
// carries the idempotency key of the operation that produced the credit; the
// unique index is what makes reward crediting exactly-once under concurrent
// writers - a second insert with the same reference fails instead of paying
// twice. Rows are never updated; corrections are recorded as reversals.
type WalletTransaction struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	WalletID    uint           `json:"wallet_id" gorm:"index"`
	Wallet      Wallet         `json:"-" gorm:"foreignKey:WalletID"`
	Amount      float64        `json:"amount"`
	Type        string         `json:"type"` // credit, debit
	ReasonCode  string         `json:"reason_code"`
	Description string         `json:"description"`
	Reference   string         `json:"reference" gorm:"uniqueIndex;not null"`
	Status      string         `json:"status"` // completed, failed, reversed
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TransactionType constants
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// TransactionStatus constants
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusReversed  = "reversed"
)

// Reason codes for wallet credits issued by the loyalty engine
const (
	ReasonMilestoneReward = "milestone_reward"
	ReasonTaskReward      = "task_reward"
	ReasonJackpotReward   = "jackpot_reward"
	ReasonTxnBonus        = "transaction_bonus"
)
