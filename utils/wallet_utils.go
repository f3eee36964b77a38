package utils

import (
	"errors"
	"fmt"

	"github.com/platemate/partner-loyalty/config"
	"github.com/platemate/partner-loyalty/models"
	"gorm.io/gorm"
)

// GetOrCreateWallet retrieves or creates a wallet for a user
func GetOrCreateWallet(userID uint) (*models.Wallet, error) {
	return getOrCreateWalletTx(config.DB, userID)
}

func getOrCreateWalletTx(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wallet = models.Wallet{
				UserID:  userID,
				Balance: 0,
			}
			if err := tx.Create(&wallet).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return &wallet, nil
}

// CreditWalletTx credits a user's wallet and appends the immutable ledger
// row inside the caller's transaction. The reference is the operation's
// idempotency key: a second credit with the same reference fails with
// ErrConflict instead of paying twice, and the caller's transaction rolls
// back everything else it did.
func CreditWalletTx(tx *gorm.DB, userID uint, amount float64, reasonCode, description, reference string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, ValidationErrorf("credit amount must be positive, got %.2f", amount)
	}
	if reference == "" {
		return nil, ValidationErrorf("credit reference must not be empty")
	}

	wallet, err := getOrCreateWalletTx(tx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet lookup: %v", ErrDependencyFailure, err)
	}

	var existing int64
	if err := tx.Model(&models.WalletTransaction{}).Where("reference = ?", reference).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("%w: reference lookup: %v", ErrDependencyFailure, err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: credit %s already recorded", ErrConflict, reference)
	}

	if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return nil, fmt.Errorf("%w: balance update: %v", ErrDependencyFailure, err)
	}

	transaction := models.WalletTransaction{
		WalletID:    wallet.ID,
		Amount:      amount,
		Type:        models.TransactionTypeCredit,
		ReasonCode:  reasonCode,
		Description: description,
		Reference:   reference,
		Status:      models.TransactionStatusCompleted,
	}
	if err := tx.Create(&transaction).Error; err != nil {
		// Two racing writers can both pass the pre-check; the unique index
		// on reference decides the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: credit %s already recorded", ErrConflict, reference)
		}
		return nil, fmt.Errorf("%w: ledger append: %v", ErrDependencyFailure, err)
	}

	return &transaction, nil
}
