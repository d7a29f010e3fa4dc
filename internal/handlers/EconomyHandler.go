package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/K1llByte/ben/internal/services/economy"
)

// EconomyHandler turns parsed chat commands into economy engine calls and
// renders each outcome as reply text. The front-end owns transport, argument
// parsing, permission checks and display-name resolution; this layer only
// knows how to phrase results.
type EconomyHandler struct {
	engine      *economy.Engine
	dailyReward float64
}

func NewEconomyHandler(engine *economy.Engine, dailyReward float64) *EconomyHandler {
	return &EconomyHandler{
		engine:      engine,
		dailyReward: dailyReward,
	}
}

// Bank shows the caller's balance, opening an account on first use.
func (h *EconomyHandler) Bank(ctx context.Context, userID uint64, name string) string {
	balance, err := h.engine.Balance(ctx, userID)
	if errors.Is(err, economy.ErrAccountNotFound) {
		if err := h.engine.OpenAccount(ctx, userID); err != nil {
			return "Unexpected error creating bank account!"
		}
		return fmt.Sprintf("__Created bank account!__\n**%s** - `%.2f` (eur)", name, 0.0)
	}
	if err != nil {
		return h.renderError(err, name)
	}
	return fmt.Sprintf("**%s** has `%.2f` euros", name, balance)
}

// Give transfers money to another user. Existence is checked per side so the
// reply names the user who is missing an account.
func (h *EconomyHandler) Give(ctx context.Context, srcID, dstID uint64, srcName, dstName string, amount float64) string {
	if _, err := h.engine.Balance(ctx, srcID); err != nil {
		return h.renderError(err, srcName)
	}
	if _, err := h.engine.Balance(ctx, dstID); err != nil {
		return h.renderError(err, dstName)
	}
	if err := h.engine.Transfer(ctx, srcID, dstID, amount); err != nil {
		return h.renderError(err, srcName)
	}
	return fmt.Sprintf("%s gave %s `%.2f` euros.", srcName, dstName, amount)
}

// Bless is the admin command injecting (or removing) money.
func (h *EconomyHandler) Bless(ctx context.Context, dstID uint64, dstName string, amount float64) string {
	if err := h.engine.Bless(ctx, dstID, amount); err != nil {
		return h.renderError(err, dstName)
	}
	return fmt.Sprintf("**%s**, you were blessed with `%.2f` euros, amen :pray:", dstName, amount)
}

// Leaderboard lists every account by wealth; resolveName maps user IDs to
// display names.
func (h *EconomyHandler) Leaderboard(ctx context.Context, resolveName func(uint64) string) string {
	rows, err := h.engine.Leaderboard(ctx)
	if err != nil {
		return h.renderError(err, "")
	}
	var output strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&output, "- **%s** has `%.2f` euros\n", resolveName(row.UserID), row.Balance)
	}
	return output.String()
}

// Price shows the current price for a coin.
func (h *EconomyHandler) Price(ctx context.Context, symbol string) string {
	quote, err := h.engine.Quote(ctx, symbol)
	if err != nil {
		return h.renderError(err, "")
	}
	return fmt.Sprintf("**%s (%s)** is at `%.2f` euros", quote.Name, quote.Symbol, quote.Price)
}

// Portfolio lists the caller's coins valued at current prices.
func (h *EconomyHandler) Portfolio(ctx context.Context, userID uint64, name string) string {
	holdings, err := h.engine.Portfolio(ctx, userID)
	if err != nil {
		return h.renderError(err, name)
	}
	if len(holdings) == 0 {
		return fmt.Sprintf("**%s** owns no coins", name)
	}
	var output strings.Builder
	for _, holding := range holdings {
		fmt.Fprintf(&output, "- **%s**: `%.6f` coins worth `%.2f` euros\n",
			holding.Symbol, holding.Amount, holding.Value)
	}
	return output.String()
}

// Buy spends euros on a coin and reports the amount bought.
func (h *EconomyHandler) Buy(ctx context.Context, userID uint64, name, symbol string, amount float64) string {
	coins, err := h.engine.Buy(ctx, userID, symbol, amount)
	if err != nil {
		return h.renderError(err, name)
	}
	return fmt.Sprintf("Bought `%.6f` **%s** for `%.2f` euros", coins, economy.NormalizeSymbol(symbol), amount)
}

// Sell converts part of a holding back into euros.
func (h *EconomyHandler) Sell(ctx context.Context, userID uint64, name, symbol string, amount float64) string {
	coins, err := h.engine.Sell(ctx, userID, symbol, amount)
	if err != nil {
		return h.renderError(err, name)
	}
	return fmt.Sprintf("Sold `%.6f` **%s** for `%.2f` euros", coins, economy.NormalizeSymbol(symbol), amount)
}

// SellAll liquidates an entire holding.
func (h *EconomyHandler) SellAll(ctx context.Context, userID uint64, name, symbol string) string {
	proceeds, err := h.engine.SellAll(ctx, userID, symbol)
	if err != nil {
		return h.renderError(err, name)
	}
	return fmt.Sprintf("Sold all your **%s** for `%.2f` euros", economy.NormalizeSymbol(symbol), proceeds)
}

// Flip wagers euros on a coin flip.
func (h *EconomyHandler) Flip(ctx context.Context, userID uint64, name, side string, bet float64) string {
	won, err := h.engine.Wager(ctx, userID, side, bet)
	if err != nil {
		return h.renderError(err, name)
	}
	if won {
		return fmt.Sprintf("**%s** won `%.2f` euros :tada:", name, bet)
	}
	return fmt.Sprintf("**%s** lost `%.2f` euros", name, bet)
}

// Daily claims the once-per-day reward.
func (h *EconomyHandler) Daily(ctx context.Context, userID uint64, name string) string {
	claimed, err := h.engine.ClaimDaily(ctx, userID, h.dailyReward)
	if err != nil {
		return h.renderError(err, name)
	}
	if !claimed {
		return "Daily reward already claimed, come back tomorrow!"
	}
	return fmt.Sprintf("**%s** claimed the daily reward of `%.2f` euros", name, h.dailyReward)
}

func (h *EconomyHandler) renderError(err error, name string) string {
	switch {
	case errors.Is(err, economy.ErrAccountNotFound):
		return fmt.Sprintf("User **%s** has no bank account", name)
	case errors.Is(err, economy.ErrAccountExists):
		return fmt.Sprintf("User **%s** already has a bank account", name)
	case errors.Is(err, economy.ErrInvalidAmount):
		return "Must be a positive amount!"
	case errors.Is(err, economy.ErrInvalidWagerSide):
		return "Pick `heads` or `tails`!"
	case errors.Is(err, economy.ErrInsufficientFunds):
		return "Insufficient funds!"
	case errors.Is(err, economy.ErrInsufficientCoins):
		return "You don't own that many coins!"
	case errors.Is(err, economy.ErrUnknownSymbol):
		return "Unknown coin symbol!"
	case errors.Is(err, economy.ErrUnavailable):
		return "Market data is unavailable right now, try again later."
	default:
		return "Something went wrong, try again later."
	}
}
