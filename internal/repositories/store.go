package repositories

import (
	"context"

	"github.com/K1llByte/ben/internal/services/economy"

	"gorm.io/gorm"
)

// Store bundles the gorm-backed repositories behind the economy.Store
// contract.
type Store struct {
	db       *gorm.DB
	accounts *AccountRepository
	trades   *TradeRepository
}

// NewStore creates a new instance of Store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		accounts: NewAccountRepository(db),
		trades:   NewTradeRepository(db),
	}
}

func (s *Store) Accounts() economy.AccountStore { return s.accounts }
func (s *Store) Trades() economy.TradeLedger    { return s.trades }

// Transact runs fn inside a single database transaction; any error rolls
// every mutation back.
func (s *Store) Transact(ctx context.Context, fn func(economy.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

var _ economy.Store = (*Store)(nil)
