package economy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/K1llByte/ben/internal/models"
)

// MemoryStore is an in-memory Store used by tests in place of the database.
// Transact applies the closure to a snapshot and swaps it in only when the
// closure succeeds, matching the all-or-nothing semantics of the SQL store.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
	inTx  bool
}

type memState struct {
	accounts map[uint64]*memAccount
	entries  []models.TradeEntry
	nextID   uint
}

type memAccount struct {
	balance   float64
	lastClaim time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memState{accounts: make(map[uint64]*memAccount)},
	}
}

func (m *MemoryStore) Accounts() AccountStore { return memAccounts{m} }
func (m *MemoryStore) Trades() TradeLedger    { return memTrades{m} }

func (m *MemoryStore) Transact(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shadow := &MemoryStore{state: m.state.clone(), inTx: true}
	if err := fn(shadow); err != nil {
		return err
	}
	m.state = shadow.state
	return nil
}

// lock is a no-op inside a transaction, where the root mutex is already held.
func (m *MemoryStore) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (s *memState) clone() *memState {
	accounts := make(map[uint64]*memAccount, len(s.accounts))
	for id, a := range s.accounts {
		copied := *a
		accounts[id] = &copied
	}
	entries := make([]models.TradeEntry, len(s.entries))
	copy(entries, s.entries)
	return &memState{accounts: accounts, entries: entries, nextID: s.nextID}
}

type memAccounts struct{ m *MemoryStore }

func (a memAccounts) Create(ctx context.Context, userID uint64) error {
	defer a.m.lock()()
	if _, ok := a.m.state.accounts[userID]; ok {
		return ErrAccountExists
	}
	a.m.state.accounts[userID] = &memAccount{lastClaim: models.NeverClaimed}
	return nil
}

func (a memAccounts) Balance(ctx context.Context, userID uint64) (float64, error) {
	defer a.m.lock()()
	account, ok := a.m.state.accounts[userID]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return account.balance, nil
}

func (a memAccounts) Adjust(ctx context.Context, userID uint64, delta float64, floorAtZero bool) error {
	defer a.m.lock()()
	account, ok := a.m.state.accounts[userID]
	if !ok {
		return ErrAccountNotFound
	}
	next := account.balance + delta
	if next < 0 {
		if !floorAtZero {
			return ErrInsufficientFunds
		}
		next = 0
	}
	account.balance = next
	return nil
}

func (a memAccounts) TryClaimDaily(ctx context.Context, userID uint64, reward float64, now time.Time) (bool, error) {
	defer a.m.lock()()
	account, ok := a.m.state.accounts[userID]
	if !ok {
		return false, ErrAccountNotFound
	}
	if sameCalendarDay(account.lastClaim, now) {
		return false, nil
	}
	account.lastClaim = now
	account.balance += reward
	return true, nil
}

func (a memAccounts) Leaderboard(ctx context.Context) ([]models.AccountBalance, error) {
	defer a.m.lock()()
	rows := make([]models.AccountBalance, 0, len(a.m.state.accounts))
	for id, account := range a.m.state.accounts {
		rows = append(rows, models.AccountBalance{UserID: id, Balance: account.balance})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Balance != rows[j].Balance {
			return rows[i].Balance > rows[j].Balance
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows, nil
}

type memTrades struct{ m *MemoryStore }

func (t memTrades) Append(ctx context.Context, userID uint64, symbol string, amount, price float64) error {
	defer t.m.lock()()
	t.m.state.nextID++
	t.m.state.entries = append(t.m.state.entries, models.TradeEntry{
		ID:        t.m.state.nextID,
		UserID:    userID,
		Symbol:    symbol,
		Amount:    amount,
		Price:     price,
		CreatedAt: time.Now(),
	})
	return nil
}

func (t memTrades) OwnedAmount(ctx context.Context, userID uint64, symbol string) (float64, error) {
	defer t.m.lock()()
	var total float64
	for _, entry := range t.m.state.entries {
		if entry.UserID == userID && entry.Symbol == symbol {
			total += entry.Amount
		}
	}
	return total, nil
}

func (t memTrades) Portfolio(ctx context.Context, userID uint64) ([]models.Holding, error) {
	defer t.m.lock()()
	totals := make(map[string]float64)
	for _, entry := range t.m.state.entries {
		if entry.UserID == userID {
			totals[entry.Symbol] += entry.Amount
		}
	}
	holdings := make([]models.Holding, 0, len(totals))
	for symbol, amount := range totals {
		if amount > 0 {
			holdings = append(holdings, models.Holding{Symbol: symbol, Amount: amount})
		}
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

// Entries returns a copy of every trade entry, for test assertions.
func (m *MemoryStore) Entries() []models.TradeEntry {
	defer m.lock()()
	entries := make([]models.TradeEntry, len(m.state.entries))
	copy(entries, m.state.entries)
	return entries
}

func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.In(b.Location()).Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

var _ Store = (*MemoryStore)(nil)
