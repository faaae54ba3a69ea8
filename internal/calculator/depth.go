package calculator

import (
	"errors"
	"fmt"

	"DepthScan/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultDepthLevels is the number of ranks the snapshot exports per side.
const DefaultDepthLevels = 14

var errNegativeSize = errors.New("negative size")

// rankColumns is the (size, price) column pair of one rank.
type rankColumns struct {
	Rank  int
	Size  string
	Price string
}

// Layout is the ordered list of column pairs for one book side. It is built
// once from the configured depth and narrowed once per table by Resolve.
type Layout struct {
	Side  model.Side
	ranks []rankColumns
}

// NewLayout returns the full layout for ranks 1..levels.
func NewLayout(side model.Side, levels int) Layout {
	l := Layout{Side: side, ranks: make([]rankColumns, 0, levels)}
	for rank := 1; rank <= levels; rank++ {
		l.ranks = append(l.ranks, rankColumns{
			Rank:  rank,
			Size:  side.SizeColumn(rank),
			Price: side.PriceColumn(rank),
		})
	}
	return l
}

// Resolve drops the ranks whose size or price column is absent from t and
// returns the ranks that were dropped.
func (l Layout) Resolve(t *model.Table) (Layout, []int) {
	out := Layout{Side: l.Side, ranks: make([]rankColumns, 0, len(l.ranks))}
	var missing []int
	for _, rc := range l.ranks {
		if t.Has(rc.Size) && t.Has(rc.Price) {
			out.ranks = append(out.ranks, rc)
		} else {
			missing = append(missing, rc.Rank)
		}
	}
	return out, missing
}

// Ranks returns the number of ranks in the layout.
func (l Layout) Ranks() int { return len(l.ranks) }

// Levels extracts the present levels of one row. An empty size or price
// cell means the level is absent. A non-numeric cell or a negative size
// also excludes the level and is reported in skipped.
func (l Layout) Levels(row model.Row) (levels []model.DepthLevel, skipped []error) {
	levels = make([]model.DepthLevel, 0, len(l.ranks))
	for _, rc := range l.ranks {
		size, err := row.Decimal(rc.Size)
		if err != nil {
			if !errors.Is(err, model.ErrNullValue) {
				skipped = append(skipped, fmt.Errorf("rank %d: %w", rc.Rank, err))
			}
			continue
		}
		price, err := row.Decimal(rc.Price)
		if err != nil {
			if !errors.Is(err, model.ErrNullValue) {
				skipped = append(skipped, fmt.Errorf("rank %d: %w", rc.Rank, err))
			}
			continue
		}
		if size.IsNegative() {
			skipped = append(skipped, fmt.Errorf("rank %d: %s: %w", rc.Rank, size, errNegativeSize))
			continue
		}
		levels = append(levels, model.DepthLevel{Rank: rc.Rank, Size: size, Price: price})
	}
	return levels, skipped
}

// Aggregate computes total size, size-weighted average price and the major
// wall of one book side. The wall is the level with the strictly greatest
// size; on ties the lower rank wins. WAPD is zero when the total size is zero.
func Aggregate(side model.Side, levels []model.DepthLevel) model.DepthAggregate {
	agg := model.DepthAggregate{Side: side, Levels: len(levels)}
	notional := decimal.Zero
	for _, lv := range levels {
		agg.TotalSize = agg.TotalSize.Add(lv.Size)
		notional = notional.Add(lv.Size.Mul(lv.Price))
		if !agg.HasWall() || lv.Size.GreaterThan(agg.Wall.Size) ||
			(lv.Size.Equal(agg.Wall.Size) && lv.Rank < agg.Wall.Rank) {
			agg.Wall = model.Wall{Rank: lv.Rank, Price: lv.Price, Size: lv.Size}
		}
	}
	if agg.TotalSize.IsPositive() {
		agg.WAPD = notional.Div(agg.TotalSize)
	}
	return agg
}

// AggregateRow is Levels followed by Aggregate.
func (l Layout) AggregateRow(row model.Row) (model.DepthAggregate, []error) {
	levels, skipped := l.Levels(row)
	return Aggregate(l.Side, levels), skipped
}
