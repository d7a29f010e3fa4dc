package economy

import (
	"errors"
)

// Business outcomes. These are returned to the caller unchanged and rendered
// by the front-end; any other error is an unexpected storage or transport
// fault and is logged before being surfaced.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidWagerSide  = errors.New("wager side must be heads or tails")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrUnknownSymbol     = errors.New("unknown coin symbol")
	ErrUnavailable       = errors.New("market data unavailable")
)

var businessErrors = []error{
	ErrAccountNotFound,
	ErrAccountExists,
	ErrInvalidAmount,
	ErrInvalidWagerSide,
	ErrInsufficientFunds,
	ErrInsufficientCoins,
	ErrUnknownSymbol,
	ErrUnavailable,
}

// IsBusinessError reports whether err is one of the defined business outcomes.
func IsBusinessError(err error) bool {
	for _, be := range businessErrors {
		if errors.Is(err, be) {
			return true
		}
	}
	return false
}
