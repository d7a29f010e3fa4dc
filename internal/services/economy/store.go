package economy

import (
	"context"
	"time"

	"github.com/K1llByte/ben/internal/models"
)

// AccountStore owns per-user balances and daily reward cooldown state.
type AccountStore interface {
	// Create inserts a fresh account with zero balance. Fails with
	// ErrAccountExists on duplicate.
	Create(ctx context.Context, userID uint64) error

	// Balance returns the current balance, or ErrAccountNotFound.
	Balance(ctx context.Context, userID uint64) (float64, error)

	// Adjust applies balance += delta as one atomic mutation. With
	// floorAtZero the result is clamped at 0; without it the update only
	// commits if the resulting balance stays >= 0, otherwise
	// ErrInsufficientFunds is returned and nothing changes.
	Adjust(ctx context.Context, userID uint64, delta float64, floorAtZero bool) error

	// TryClaimDaily credits reward and stamps the claim date if the last
	// claim was on a different calendar day than now. Returns whether the
	// reward was granted. Check and credit are a single atomic mutation.
	TryClaimDaily(ctx context.Context, userID uint64, reward float64, now time.Time) (bool, error)

	// Leaderboard returns every account ordered by balance descending.
	Leaderboard(ctx context.Context) ([]models.AccountBalance, error)
}

// TradeLedger is the append-only record of buy and sell events. It performs
// no business validation; the engine validates before appending.
type TradeLedger interface {
	Append(ctx context.Context, userID uint64, symbol string, amount, price float64) error

	// OwnedAmount returns the signed sum of all entries for the pair,
	// 0 when there are none.
	OwnedAmount(ctx context.Context, userID uint64, symbol string) (float64, error)

	// Portfolio returns every symbol with a strictly positive owned amount.
	// Holdings come back unvalued; pricing them needs the oracle.
	Portfolio(ctx context.Context, userID uint64) ([]models.Holding, error)
}

// Store bundles the account and trade state behind one handle. Transact runs
// fn against the same state with all-or-nothing semantics: if fn returns an
// error, none of its mutations survive.
type Store interface {
	Accounts() AccountStore
	Trades() TradeLedger
	Transact(ctx context.Context, fn func(Store) error) error
}

// PriceOracle resolves a coin symbol to its display name and current fiat
// price. Every call is a fresh lookup against the market data service.
type PriceOracle interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
}
