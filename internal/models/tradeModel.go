package models

import (
	"time"
)

// TradeEntry is one immutable buy or sell record. Amount is signed: positive
// for coins bought, negative for coins sold. Price is the fiat price per coin
// at trade time, kept for audit.
type TradeEntry struct {
	ID     uint    `gorm:"primaryKey"`
	UserID uint64  `gorm:"index;not null"`
	Symbol string  `gorm:"index;not null"`
	Amount float64 `gorm:"type:decimal(20,8);not null"`
	Price  float64 `gorm:"type:decimal(20,8);not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Holding is the derived position for one symbol: the signed sum of all trade
// entries, valued at the current price when the caller asked for a valuation.
type Holding struct {
	Symbol string
	Amount float64
	Value  float64
}
