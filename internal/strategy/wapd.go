package strategy

import (
	"fmt"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"
)

type wapdRow struct {
	symbol     string
	close      float64
	hasClose   bool
	wapdBid    float64
	wapdAsk    float64
	supportPct float64
	resistPct  float64
	bidTotal   float64
	askTotal   float64
}

var wapdHeader = []string{
	"SEMBOL", "KAPANIS", "WAPD_ALIS", "WAPD_SATIS", "DESTEK_UZAKLIK_YUZDE", "DIRENC_UZAKLIK_YUZDE",
	"TOPLAM_ALIS_LOT", "TOPLAM_SATIS_LOT",
}

func (r wapdRow) cells() []string {
	last := ""
	if r.hasClose {
		last = f2s(r.close)
	}
	return []string{
		r.symbol, last, f2s(r.wapdBid), f2s(r.wapdAsk), f2s(r.supportPct), f2s(r.resistPct),
		i2s(r.bidTotal), i2s(r.askTotal),
	}
}

// wapdDistances returns how far the bid WAPD sits below the close and how
// far the ask WAPD sits above it, in percent. A missing close or an empty
// side yields DistanceSentinel.
func wapdDistances(last float64, hasClose bool, wapdBid, wapdAsk float64) (support, resist float64) {
	support, resist = DistanceSentinel, DistanceSentinel
	if !hasClose || last == 0 {
		return support, resist
	}
	if wapdBid != 0 {
		support, _ = calculator.DistancePct(last, wapdBid)
	}
	if wapdAsk != 0 {
		resist = (wapdAsk - last) / last * 100
	}
	return support, resist
}

// WAPD compares the size-weighted price of each book side with the close.
func (e *Engine) WAPD(snap *model.Snapshot) (*Result, error) {
	bids := e.aggregate("wapd", snap.Table(model.TableBidDepth), model.SideBid)
	asks := e.aggregate("wapd", snap.Table(model.TableAskDepth), model.SideAsk)
	prices := snap.Table(model.TablePrices)

	rows := make([]wapdRow, 0, len(bids.order))
	for _, sym := range bids.order {
		ask, ok := asks.get(sym)
		if !ok {
			continue
		}
		bid := bids.aggs[sym]
		prow, _ := prices.Lookup(sym)
		f := read(prow)
		r := wapdRow{symbol: sym}
		r.close, r.hasClose = f.maybe("KAPANIS")
		if f.err != nil {
			return nil, fmt.Errorf("%s: %w", sym, f.err)
		}
		_, _, r.bidTotal, r.wapdBid = floats(bid)
		_, _, r.askTotal, r.wapdAsk = floats(ask)
		r.supportPct, r.resistPct = wapdDistances(r.close, r.hasClose, r.wapdBid, r.wapdAsk)
		rows = append(rows, r)
	}

	safe := sorted(filter(rows, func(r wapdRow) bool {
		return r.supportPct > SafeSupportMinPct && r.supportPct < SafeSupportMaxPct && r.bidTotal > r.askTotal
	}), func(a, b wapdRow) bool { return a.supportPct < b.supportPct })

	risky := sorted(filter(rows, func(r wapdRow) bool {
		return r.resistPct < RiskyResistanceMax && r.askTotal > r.bidTotal
	}), func(a, b wapdRow) bool { return a.resistPct < b.resistPct })

	return &Result{Reports: []model.Report{
		build("Safe harbours: bid WAPD close below price", "WAPD_ANALIZI_GUVENLI", WAPDPreview, wapdHeader, safe, wapdRow.cells),
		build("Under selling pressure: ask WAPD close above price", "WAPD_ANALIZI_RISKLI", WAPDPreview, wapdHeader, risky, wapdRow.cells),
		build("All WAPD results", "WAPD_ANALIZI_TUM", 0, wapdHeader, rows, wapdRow.cells),
	}}, nil
}
