package strategy

import (
	"fmt"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"
)

type spreadRow struct {
	symbol    string
	bid1      float64
	ask1      float64
	high      float64
	low       float64
	close     float64
	spread    float64
	spreadPct float64
	rangePct  float64
}

var spreadHeader = []string{
	"SEMBOL", "1 ALIS", "1 SATIS", "YUKSEK", "DUSUK", "KAPANIS", "SPREAD_TL", "SPREAD_YUZDE", "GUN_ICI_MARJ_YUZDE",
}

func (r spreadRow) cells() []string {
	return []string{
		r.symbol, f2s(r.bid1), f2s(r.ask1), f2s(r.high), f2s(r.low), f2s(r.close),
		f2s(r.spread), f2s(r.spreadPct), f2s(r.rangePct),
	}
}

// Spread measures the best bid/ask gap against the intraday range.
func (e *Engine) Spread(snap *model.Snapshot) (*Result, error) {
	bids := snap.Table(model.TableBidDepth)
	asks := snap.Table(model.TableAskDepth)
	prices := snap.Table(model.TablePrices)
	bidCol := model.SideBid.PriceColumn(1)
	askCol := model.SideAsk.PriceColumn(1)

	rows := make([]spreadRow, 0, bids.Len())
	for i := 0; i < bids.Len(); i++ {
		brow := bids.Row(i)
		sym := brow.Symbol()
		arow, ok := asks.Lookup(sym)
		if !ok {
			continue
		}
		bf, af := read(brow), read(arow)
		r := spreadRow{symbol: sym, bid1: bf.num(bidCol), ask1: af.num(askCol)}

		prow, _ := prices.Lookup(sym)
		pf := read(prow)
		high, hasHigh := pf.maybe("YUKSEK")
		low, hasLow := pf.maybe("DUSUK")
		r.high, r.low = high, low
		r.close = pf.opt("KAPANIS", 0)

		for _, f := range []*fields{bf, af, pf} {
			if f.err != nil {
				return nil, fmt.Errorf("%s: %w", sym, f.err)
			}
		}
		if e.skip("spread", sym, bf) || e.skip("spread", sym, af) {
			continue
		}

		r.spread = r.ask1 - r.bid1
		if r.bid1 != 0 {
			r.spreadPct = r.spread / r.bid1 * 100
		}
		if hasHigh && hasLow {
			r.rangePct = calculator.PctChange(low, high)
		}
		rows = append(rows, r)
	}

	rows = sorted(rows, func(a, b spreadRow) bool { return a.spreadPct < b.spreadPct })
	narrow := head(filter(rows, func(r spreadRow) bool {
		return r.spreadPct > 0 && r.spreadPct < NarrowSpreadMaxPct
	}), SpreadTopK)

	return &Result{Reports: []model.Report{
		build("Narrowest spreads", "SPREAD_ANALIZI_DAR_MAKAS", SpreadTopK, spreadHeader, narrow, spreadRow.cells),
		build("All spreads", "SPREAD_ANALIZI_TUM", 0, spreadHeader, rows, spreadRow.cells),
	}}, nil
}
