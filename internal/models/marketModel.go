package models

// Quote is a point-in-time price for a symbol from the market data service.
// Not persisted; fetched fresh on every lookup.
type Quote struct {
	Symbol string
	Name   string
	Price  float64
}
