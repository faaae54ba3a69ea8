package strategy

import (
	"fmt"
	"math"

	"DepthScan/internal/model"
)

// Wall directions as they appear in the reports.
const (
	DirectionBid = "ALIS (DESTEK)"
	DirectionAsk = "SATIS (DIRENC)"
)

type liquidityRow struct {
	symbol    string
	direction string
	price     float64
	lots      float64
	strength  float64
	distance  float64
	close     float64
}

var liquidityHeader = []string{
	"SEMBOL", "YON", "DUVAR_FIYATI", "DUVAR_LOTU", "DUVAR_GUCU_KAT", "FIYATA_UZAKLIK_%", "KAPANIS",
}

func (r liquidityRow) cells() []string {
	return []string{
		r.symbol, r.direction, f2s(r.price), i2s(r.lots), f2s(r.strength), f2s(r.distance), f2s(r.close),
	}
}

// liquidityWall reports the outsized level of one side, if any. A level is a
// wall when it holds more than mult times the mean lot of the side.
func liquidityWall(agg model.DepthAggregate, mult, last float64, hasClose bool) (liquidityRow, bool) {
	if agg.Levels == 0 {
		return liquidityRow{}, false
	}
	wall, size, _, _ := floats(agg)
	mean := agg.MeanSize().InexactFloat64()
	if size <= mean*mult {
		return liquidityRow{}, false
	}
	r := liquidityRow{
		price:    wall,
		lots:     size,
		strength: model.Round(size/mean, 1),
		close:    math.NaN(),
	}
	if hasClose {
		r.close = last
		if last != 0 {
			if agg.Side == model.SideBid {
				r.distance = (last - wall) / last * 100
			} else {
				r.distance = (wall - last) / last * 100
			}
		}
	}
	r.distance = model.Round(r.distance, 2)
	return r, true
}

// LiquidityWall finds price levels holding a multiple of the mean lot.
func (e *Engine) LiquidityWall(snap *model.Snapshot) (*Result, error) {
	bids := e.aggregate("liquidity-wall", snap.Table(model.TableBidDepth), model.SideBid)
	asks := e.aggregate("liquidity-wall", snap.Table(model.TableAskDepth), model.SideAsk)
	prices := snap.Table(model.TablePrices)

	var rows []liquidityRow
	for _, sym := range bids.order {
		bid, _ := bids.get(sym)
		ask, ok := asks.get(sym)
		if !ok {
			continue
		}
		var last float64
		var hasClose bool
		if prow, ok := prices.Lookup(sym); ok {
			pf := read(prow)
			last, hasClose = pf.maybe("KAPANIS")
			if pf.err != nil {
				return nil, fmt.Errorf("%s: %w", sym, pf.err)
			}
		}
		for _, side := range []struct {
			agg model.DepthAggregate
			dir string
		}{{bid, DirectionBid}, {ask, DirectionAsk}} {
			if r, ok := liquidityWall(side.agg, e.params.WallMultiplier, last, hasClose); ok {
				r.symbol, r.direction = sym, side.dir
				rows = append(rows, r)
			}
		}
	}

	strongest := func(dir string) []liquidityRow {
		return head(sorted(filter(rows, func(r liquidityRow) bool { return r.direction == dir }),
			func(a, b liquidityRow) bool { return a.strength > b.strength }), LiquidityTopK)
	}
	return &Result{Reports: []model.Report{
		build("Strongest bid walls", "LIKIDITE_DUVARI_ALIS", LiquidityTopK, liquidityHeader, strongest(DirectionBid), liquidityRow.cells),
		build("Strongest ask walls", "LIKIDITE_DUVARI_SATIS", LiquidityTopK, liquidityHeader, strongest(DirectionAsk), liquidityRow.cells),
		build("All liquidity walls", "LIKIDITE_DUVARI_TUM", 0, liquidityHeader, rows, liquidityRow.cells),
	}}, nil
}
