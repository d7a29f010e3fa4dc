package handlers

import (
	"context"
	"testing"

	"github.com/K1llByte/ben/internal/models"
	"github.com/K1llByte/ben/internal/services/economy"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOracle struct {
	quotes map[string]models.Quote
}

func (o *stubOracle) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	quote, ok := o.quotes[symbol]
	if !ok {
		return models.Quote{}, economy.ErrUnknownSymbol
	}
	return quote, nil
}

func newTestHandler(t *testing.T) (*EconomyHandler, *economy.MemoryStore) {
	t.Helper()
	store := economy.NewMemoryStore()
	oracle := &stubOracle{quotes: map[string]models.Quote{
		"BTC": {Symbol: "BTC", Name: "Bitcoin", Price: 25000},
	}}
	engine := economy.NewEngine(store, oracle, zerolog.Nop())
	return NewEconomyHandler(engine, 50), store
}

func TestBankCreatesAccountOnFirstUse(t *testing.T) {
	handler, _ := newTestHandler(t)
	ctx := context.Background()

	reply := handler.Bank(ctx, 1, "alice")
	assert.Equal(t, "__Created bank account!__\n**alice** - `0.00` (eur)", reply)

	reply = handler.Bank(ctx, 1, "alice")
	assert.Equal(t, "**alice** has `0.00` euros", reply)
}

func TestGiveReplies(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	require.NoError(t, store.Accounts().Create(ctx, 1))
	require.NoError(t, store.Accounts().Adjust(ctx, 1, 100, true))

	reply := handler.Give(ctx, 1, 2, "alice", "bob", 30)
	assert.Equal(t, "User **bob** has no bank account", reply)

	require.NoError(t, store.Accounts().Create(ctx, 2))

	reply = handler.Give(ctx, 1, 2, "alice", "bob", -3)
	assert.Equal(t, "Must be a positive amount!", reply)

	reply = handler.Give(ctx, 1, 2, "alice", "bob", 300)
	assert.Equal(t, "Insufficient funds!", reply)

	reply = handler.Give(ctx, 1, 2, "alice", "bob", 30)
	assert.Equal(t, "alice gave bob `30.00` euros.", reply)
}

func TestBlessReply(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	require.NoError(t, store.Accounts().Create(ctx, 1))

	reply := handler.Bless(ctx, 1, "alice", 100)
	assert.Equal(t, "**alice**, you were blessed with `100.00` euros, amen :pray:", reply)

	reply = handler.Bless(ctx, 2, "bob", 100)
	assert.Equal(t, "User **bob** has no bank account", reply)
}

func TestLeaderboardReply(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	require.NoError(t, store.Accounts().Create(ctx, 1))
	require.NoError(t, store.Accounts().Create(ctx, 2))
	require.NoError(t, store.Accounts().Adjust(ctx, 2, 75, true))

	names := map[uint64]string{1: "alice", 2: "bob"}
	reply := handler.Leaderboard(ctx, func(id uint64) string { return names[id] })
	assert.Equal(t, "- **bob** has `75.00` euros\n- **alice** has `0.00` euros\n", reply)
}

func TestTradeReplies(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	require.NoError(t, store.Accounts().Create(ctx, 1))
	require.NoError(t, store.Accounts().Adjust(ctx, 1, 100, true))

	assert.Equal(t, "**Bitcoin (BTC)** is at `25000.00` euros", handler.Price(ctx, "btc"))
	assert.Equal(t, "Unknown coin symbol!", handler.Price(ctx, "doge"))

	assert.Equal(t, "**alice** owns no coins", handler.Portfolio(ctx, 1, "alice"))

	reply := handler.Buy(ctx, 1, "alice", "btc", 50)
	assert.Equal(t, "Bought `0.002000` **BTC** for `50.00` euros", reply)

	reply = handler.Portfolio(ctx, 1, "alice")
	assert.Equal(t, "- **BTC**: `0.002000` coins worth `50.00` euros\n", reply)

	reply = handler.SellAll(ctx, 1, "alice", "btc")
	assert.Equal(t, "Sold all your **BTC** for `50.00` euros", reply)
}

func TestDailyReply(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	require.NoError(t, store.Accounts().Create(ctx, 1))

	reply := handler.Daily(ctx, 1, "alice")
	assert.Equal(t, "**alice** claimed the daily reward of `50.00` euros", reply)

	reply = handler.Daily(ctx, 1, "alice")
	assert.Equal(t, "Daily reward already claimed, come back tomorrow!", reply)
}
