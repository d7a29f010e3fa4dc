package economy

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/K1llByte/ben/internal/models"

	"github.com/rs/zerolog"
)

// Wager sides.
const (
	SideHeads = "heads"
	SideTails = "tails"
)

// Engine orchestrates all economy operations over the account store, trade
// ledger and price oracle. Checks always run in the same order: account
// existence, then caller-value validation, then the monetary mutation, so the
// caller gets the most specific applicable error.
type Engine struct {
	store  Store
	oracle PriceOracle
	log    zerolog.Logger

	flip func() bool // true = the coin landed heads
	now  func() time.Time
}

func NewEngine(store Store, oracle PriceOracle, log zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		oracle: oracle,
		log:    log,
		flip:   func() bool { return rand.Intn(2) == 0 },
		now:    time.Now,
	}
}

// OpenAccount creates a bank account with zero balance. A second creation for
// the same user fails with ErrAccountExists.
func (e *Engine) OpenAccount(ctx context.Context, userID uint64) error {
	return e.surface("open_account", e.store.Accounts().Create(ctx, userID))
}

// Balance returns the current fiat balance.
func (e *Engine) Balance(ctx context.Context, userID uint64) (float64, error) {
	balance, err := e.store.Accounts().Balance(ctx, userID)
	return balance, e.surface("balance", err)
}

// Transfer moves amount from src to dst. The debit only commits if src stays
// non-negative, and debit and credit happen in one transaction.
func (e *Engine) Transfer(ctx context.Context, src, dst uint64, amount float64) error {
	if err := e.ensureAccount(ctx, src); err != nil {
		return e.surface("transfer", err)
	}
	if err := e.ensureAccount(ctx, dst); err != nil {
		return e.surface("transfer", err)
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	err := e.store.Transact(ctx, func(s Store) error {
		if err := s.Accounts().Adjust(ctx, src, -amount, false); err != nil {
			return err
		}
		return s.Accounts().Adjust(ctx, dst, amount, true)
	})
	return e.surface("transfer", err)
}

// Bless is the admin credit: it adds amount to dst's balance, clamping the
// result at zero. A negative amount is an admin debit.
func (e *Engine) Bless(ctx context.Context, dst uint64, amount float64) error {
	if err := e.ensureAccount(ctx, dst); err != nil {
		return e.surface("bless", err)
	}
	return e.surface("bless", e.store.Accounts().Adjust(ctx, dst, amount, true))
}

// Leaderboard returns every account ordered by balance descending.
func (e *Engine) Leaderboard(ctx context.Context) ([]models.AccountBalance, error) {
	rows, err := e.store.Accounts().Leaderboard(ctx)
	return rows, e.surface("leaderboard", err)
}

// Quote fetches the current price for a coin symbol. Symbol matching is
// case-insensitive.
func (e *Engine) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	quote, err := e.fetchQuote(ctx, symbol)
	return quote, e.surface("quote", err)
}

// Portfolio returns the user's held coins valued at current prices. Each
// symbol costs one oracle round trip.
func (e *Engine) Portfolio(ctx context.Context, userID uint64) ([]models.Holding, error) {
	if err := e.ensureAccount(ctx, userID); err != nil {
		return nil, e.surface("portfolio", err)
	}
	holdings, err := e.store.Trades().Portfolio(ctx, userID)
	if err != nil {
		return nil, e.surface("portfolio", err)
	}
	for i := range holdings {
		quote, err := e.fetchQuote(ctx, holdings[i].Symbol)
		if err != nil {
			return nil, e.surface("portfolio", err)
		}
		holdings[i].Value = holdings[i].Amount * quote.Price
	}
	return holdings, nil
}

// Buy spends fiatAmount of the user's balance on coins at the current price.
// Returns the amount of coins bought.
func (e *Engine) Buy(ctx context.Context, userID uint64, symbol string, fiatAmount float64) (float64, error) {
	if err := e.ensureAccount(ctx, userID); err != nil {
		return 0, e.surface("buy", err)
	}
	if fiatAmount <= 0 {
		return 0, ErrInvalidAmount
	}
	quote, err := e.fetchQuote(ctx, symbol)
	if err != nil {
		return 0, e.surface("buy", err)
	}
	coins := fiatAmount / quote.Price
	err = e.store.Transact(ctx, func(s Store) error {
		if err := s.Accounts().Adjust(ctx, userID, -fiatAmount, false); err != nil {
			return err
		}
		return s.Trades().Append(ctx, userID, quote.Symbol, coins, quote.Price)
	})
	if err != nil {
		return 0, e.surface("buy", err)
	}
	return coins, nil
}

// Sell converts fiatAmount worth of the user's coins back into balance at the
// current price. Fails with ErrInsufficientCoins if the user does not own
// that many coins. Returns the amount of coins sold.
func (e *Engine) Sell(ctx context.Context, userID uint64, symbol string, fiatAmount float64) (float64, error) {
	if err := e.ensureAccount(ctx, userID); err != nil {
		return 0, e.surface("sell", err)
	}
	if fiatAmount <= 0 {
		return 0, ErrInvalidAmount
	}
	quote, err := e.fetchQuote(ctx, symbol)
	if err != nil {
		return 0, e.surface("sell", err)
	}
	coins := fiatAmount / quote.Price
	err = e.store.Transact(ctx, func(s Store) error {
		owned, err := s.Trades().OwnedAmount(ctx, userID, quote.Symbol)
		if err != nil {
			return err
		}
		if owned < coins {
			return ErrInsufficientCoins
		}
		if err := s.Trades().Append(ctx, userID, quote.Symbol, -coins, quote.Price); err != nil {
			return err
		}
		return s.Accounts().Adjust(ctx, userID, fiatAmount, true)
	})
	if err != nil {
		return 0, e.surface("sell", err)
	}
	return coins, nil
}

// SellAll sells the user's entire holding of symbol at the current price and
// returns the fiat proceeds.
func (e *Engine) SellAll(ctx context.Context, userID uint64, symbol string) (float64, error) {
	if err := e.ensureAccount(ctx, userID); err != nil {
		return 0, e.surface("sell_all", err)
	}
	quote, err := e.fetchQuote(ctx, symbol)
	if err != nil {
		return 0, e.surface("sell_all", err)
	}
	var proceeds float64
	err = e.store.Transact(ctx, func(s Store) error {
		owned, err := s.Trades().OwnedAmount(ctx, userID, quote.Symbol)
		if err != nil {
			return err
		}
		if owned <= 0 {
			return ErrInsufficientCoins
		}
		if err := s.Trades().Append(ctx, userID, quote.Symbol, -owned, quote.Price); err != nil {
			return err
		}
		proceeds = owned * quote.Price
		return s.Accounts().Adjust(ctx, userID, proceeds, true)
	})
	if err != nil {
		return 0, e.surface("sell_all", err)
	}
	return proceeds, nil
}

// Wager flips a fair coin. A win credits bet, a loss debits it; the losing
// debit only commits if the balance stays non-negative.
func (e *Engine) Wager(ctx context.Context, userID uint64, side string, bet float64) (bool, error) {
	if err := e.ensureAccount(ctx, userID); err != nil {
		return false, e.surface("wager", err)
	}
	if bet <= 0 {
		return false, ErrInvalidAmount
	}
	side = strings.ToLower(strings.TrimSpace(side))
	if side != SideHeads && side != SideTails {
		return false, ErrInvalidWagerSide
	}
	won := e.flip() == (side == SideHeads)
	if won {
		return true, e.surface("wager", e.store.Accounts().Adjust(ctx, userID, bet, true))
	}
	return false, e.surface("wager", e.store.Accounts().Adjust(ctx, userID, -bet, false))
}

// ClaimDaily grants the daily reward once per calendar day. Returns whether
// the reward was granted.
func (e *Engine) ClaimDaily(ctx context.Context, userID uint64, reward float64) (bool, error) {
	if err := e.ensureAccount(ctx, userID); err != nil {
		return false, e.surface("claim_daily", err)
	}
	claimed, err := e.store.Accounts().TryClaimDaily(ctx, userID, reward, e.now())
	return claimed, e.surface("claim_daily", err)
}

// fetchQuote normalizes the symbol and rejects non-positive prices, which
// would otherwise flow into the fiat/price division and corrupt the ledger.
func (e *Engine) fetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	quote, err := e.oracle.Quote(ctx, NormalizeSymbol(symbol))
	if err != nil {
		return models.Quote{}, err
	}
	if quote.Price <= 0 {
		return models.Quote{}, ErrUnavailable
	}
	return quote, nil
}

func (e *Engine) ensureAccount(ctx context.Context, userID uint64) error {
	_, err := e.store.Accounts().Balance(ctx, userID)
	return err
}

// surface passes business outcomes through untouched and logs anything else
// for operator visibility before returning it.
func (e *Engine) surface(op string, err error) error {
	if err == nil || IsBusinessError(err) {
		return err
	}
	e.log.Error().Err(err).Str("op", op).Msg("economy operation failed unexpectedly")
	return err
}

// NormalizeSymbol upper-cases and trims a coin symbol. Ledger entries and
// oracle lookups always use the normalized form.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
