package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/K1llByte/ben/internal/models"
	"github.com/K1llByte/ben/internal/services/economy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new instance of AccountRepository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a fresh account with zero balance
func (r *AccountRepository) Create(ctx context.Context, userID uint64) error {
	account := models.Account{
		UserID:         userID,
		LastDailyClaim: models.NeverClaimed,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&account)
	if result.Error != nil {
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return economy.ErrAccountExists
	}
	return nil
}

// Balance retrieves the current balance for a user
func (r *AccountRepository) Balance(ctx context.Context, userID uint64) (float64, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, economy.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load account: %w", err)
	}
	return account.Balance, nil
}

// Adjust applies balance += delta as a single conditional update. Without
// floorAtZero the row only changes when the resulting balance stays >= 0,
// which is what keeps concurrent debits from driving a balance negative.
func (r *AccountRepository) Adjust(ctx context.Context, userID uint64, delta float64, floorAtZero bool) error {
	if floorAtZero {
		result := r.db.WithContext(ctx).Model(&models.Account{}).
			Where("user_id = ?", userID).
			Update("balance", gorm.Expr("GREATEST(balance + ?, 0)", delta))
		if result.Error != nil {
			return fmt.Errorf("failed to adjust balance: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return economy.ErrAccountNotFound
		}
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ? AND balance + ? >= 0", userID, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing account from a rejected debit.
		if _, err := r.Balance(ctx, userID); err != nil {
			return err
		}
		return economy.ErrInsufficientFunds
	}
	return nil
}

// TryClaimDaily credits the reward if the last claim was on a different
// calendar date, as one atomic check-and-set
func (r *AccountRepository) TryClaimDaily(ctx context.Context, userID uint64, reward float64, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ? AND DATE(last_daily_claim) IS DISTINCT FROM DATE(?)", userID, now).
		Updates(map[string]interface{}{
			"balance":          gorm.Expr("balance + ?", reward),
			"last_daily_claim": now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim daily reward: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.Balance(ctx, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// Leaderboard retrieves every account ordered by balance descending
func (r *AccountRepository) Leaderboard(ctx context.Context) ([]models.AccountBalance, error) {
	var rows []models.AccountBalance
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Select("user_id, balance").
		Order("balance DESC, user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return rows, nil
}
