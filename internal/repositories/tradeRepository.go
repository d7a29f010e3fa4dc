package repositories

import (
	"context"
	"fmt"

	"github.com/K1llByte/ben/internal/models"

	"gorm.io/gorm"
)

type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new instance of TradeRepository
func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Append inserts one immutable trade entry. Entries are never updated or
// deleted; all validation happens in the economy engine before this call.
func (r *TradeRepository) Append(ctx context.Context, userID uint64, symbol string, amount, price float64) error {
	entry := models.TradeEntry{
		UserID: userID,
		Symbol: symbol,
		Amount: amount,
		Price:  price,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append trade entry: %w", err)
	}
	return nil
}

// OwnedAmount returns the signed sum of entries for a user and symbol
func (r *TradeRepository) OwnedAmount(ctx context.Context, userID uint64, symbol string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.TradeEntry{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum trade entries: %w", err)
	}
	return total, nil
}

// Portfolio returns every symbol with a strictly positive owned amount
func (r *TradeRepository) Portfolio(ctx context.Context, userID uint64) ([]models.Holding, error) {
	var holdings []models.Holding
	err := r.db.WithContext(ctx).Model(&models.TradeEntry{}).
		Where("user_id = ?", userID).
		Select("symbol, SUM(amount) AS amount").
		Group("symbol").
		Having("SUM(amount) > 0").
		Order("symbol").
		Scan(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	return holdings, nil
}
