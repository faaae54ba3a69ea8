package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side identifies one side of the order book.
type Side string

const (
	SideBid Side = "ALIS"
	SideAsk Side = "SATIS"
)

// SizeColumn returns the lot column name for a rank, e.g. "3 ALIS ADET".
func (s Side) SizeColumn(rank int) string { return fmt.Sprintf("%d %s ADET", rank, s) }

// PriceColumn returns the price column name for a rank, e.g. "3 ALIS".
func (s Side) PriceColumn(rank int) string { return fmt.Sprintf("%d %s", rank, s) }

// DepthLevel is one populated rank of a book side. Rank 1 is the best price.
type DepthLevel struct {
	Rank  int
	Size  decimal.Decimal
	Price decimal.Decimal
}

// Wall is the level carrying the largest size. Rank 0 means no level was present.
type Wall struct {
	Rank  int
	Price decimal.Decimal
	Size  decimal.Decimal
}

// DepthAggregate summarises one side of one symbol's book.
type DepthAggregate struct {
	Side      Side
	Levels    int
	TotalSize decimal.Decimal
	// WAPD is the size-weighted average price, zero when TotalSize is zero.
	WAPD decimal.Decimal
	Wall Wall
}

// HasWall reports whether at least one level was present.
func (a DepthAggregate) HasWall() bool { return a.Wall.Rank > 0 }

// HasLots reports whether the wall holds a positive size. A side whose
// present levels are all zero has a wall rank but no lots behind it.
func (a DepthAggregate) HasLots() bool { return a.HasWall() && a.Wall.Size.IsPositive() }

// MeanSize is the average lot per present level.
func (a DepthAggregate) MeanSize() decimal.Decimal {
	if a.Levels == 0 {
		return decimal.Zero
	}
	return a.TotalSize.Div(decimal.NewFromInt(int64(a.Levels)))
}
