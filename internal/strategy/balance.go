package strategy

import (
	"fmt"

	"DepthScan/internal/model"
)

type levelRow struct {
	symbol  string
	active  float64
	passive float64
	overall float64
}

var levelHeader = []string{"SEMBOL", "AKTIF_DENGE", "PASIF_DENGE", "GENEL_DENGE"}

func (r levelRow) cells() []string {
	return []string{r.symbol, f2s(r.active), f2s(r.passive), f2s(r.overall)}
}

// LevelBalance adds executed and pending net flow per symbol.
func (e *Engine) LevelBalance(snap *model.Snapshot) (*Result, error) {
	active := snap.Table(model.TableActiveTrades)
	pending := snap.Table(model.TablePendingOrders)

	rows := make([]levelRow, 0, active.Len())
	for i := 0; i < active.Len(); i++ {
		arow := active.Row(i)
		sym := arow.Symbol()
		qrow, ok := pending.Lookup(sym)
		if !ok {
			continue
		}
		af, qf := read(arow), read(qrow)
		r := levelRow{symbol: sym, active: af.num("FARK"), passive: qf.num("NET.EMIR.FARKI")}
		for _, f := range []*fields{af, qf} {
			if f.err != nil {
				return nil, fmt.Errorf("%s: %w", sym, f.err)
			}
		}
		if e.skip("level-balance", sym, af) || e.skip("level-balance", sym, qf) {
			continue
		}
		r.overall = r.active + r.passive
		rows = append(rows, r)
	}

	buyers := sorted(filter(rows, func(r levelRow) bool { return r.active > 0 && r.passive > 0 }),
		func(a, b levelRow) bool { return a.overall > b.overall })
	sellers := sorted(filter(rows, func(r levelRow) bool { return r.active < 0 && r.passive < 0 }),
		func(a, b levelRow) bool { return a.overall < b.overall })

	return &Result{Reports: []model.Report{
		build("Strong buyers: active and passive both positive", "KADEME_DENGE_ALICILI", LevelBalancePreview, levelHeader, buyers, levelRow.cells),
		build("Strong sellers: active and passive both negative", "KADEME_DENGE_SATICILI", LevelBalancePreview, levelHeader, sellers, levelRow.cells),
		build("All level balances", "KADEME_DENGE_TUM", 0, levelHeader, rows, levelRow.cells),
	}}, nil
}

// Depth balance labels.
const (
	LabelStrongBull     = "GÜÇLÜ BOĞA (ALICI ÇOK)"
	LabelBuyerWeighted  = "ALICI AĞIRLIKLI"
	LabelStrongBear     = "GÜÇLÜ AYI (SATICI ÇOK)"
	LabelSellerWeighted = "SATICI AĞIRLIKLI"
	LabelBalanced       = "DENGELİ"
)

type depthRow struct {
	symbol   string
	ratio    float64
	bidTotal float64
	askTotal float64
	majorBid float64
	majorAsk float64
	label    string
	netLots  float64
}

var depthHeader = []string{
	"SEMBOL", "DURUM", "DERINLIK_ORANI", "TOPLAM_ALIS_LOT", "TOPLAM_SATIS_LOT", "NET_FARK_LOT", "MAJOR_DESTEK", "MAJOR_DIRENC",
}

func (r depthRow) cells() []string {
	return []string{
		r.symbol, r.label, f2s(r.ratio), i2s(r.bidTotal), i2s(r.askTotal), i2s(r.netLots),
		f2s(r.majorBid), f2s(r.majorAsk),
	}
}

// depthRatio is bid over ask depth. A book with no sellers scores
// DepthRatioNoSellers and an empty book scores zero.
func depthRatio(bid, ask float64) float64 {
	switch {
	case ask > 0:
		return bid / ask
	case bid > 0:
		return DepthRatioNoSellers
	default:
		return 0
	}
}

func depthLabel(ratio float64) string {
	switch {
	case ratio > StrongBullRatio:
		return LabelStrongBull
	case ratio > BuyerWeightedRatio:
		return LabelBuyerWeighted
	case ratio < StrongBearRatio:
		return LabelStrongBear
	case ratio < SellerWeightedRatio:
		return LabelSellerWeighted
	default:
		return LabelBalanced
	}
}

// majorPrice is the wall price, or zero when the side holds no lots.
func majorPrice(agg model.DepthAggregate) float64 {
	wall, _, _, _ := floats(agg)
	return wall
}

// DepthBalance compares total bid and ask depth for every symbol.
func (e *Engine) DepthBalance(snap *model.Snapshot) (*Result, error) {
	bids := e.aggregate("depth-balance", snap.Table(model.TableBidDepth), model.SideBid)
	asks := e.aggregate("depth-balance", snap.Table(model.TableAskDepth), model.SideAsk)

	rows := make([]depthRow, 0, len(bids.order))
	for _, sym := range bids.order {
		bid, _ := bids.get(sym)
		ask, ok := asks.get(sym)
		if !ok {
			continue
		}
		_, _, bidTotal, _ := floats(bid)
		_, _, askTotal, _ := floats(ask)
		r := depthRow{
			symbol:   sym,
			bidTotal: bidTotal,
			askTotal: askTotal,
			netLots:  bidTotal - askTotal,
			ratio:    depthRatio(bidTotal, askTotal),
			majorBid: majorPrice(bid),
			majorAsk: majorPrice(ask),
		}
		r.label = depthLabel(r.ratio)
		rows = append(rows, r)
	}

	buyers := head(sorted(rows, func(a, b depthRow) bool { return a.ratio > b.ratio }), DepthBalanceTopK)
	sellers := head(sorted(filter(rows, func(r depthRow) bool { return r.ratio > 0 }),
		func(a, b depthRow) bool { return a.ratio < b.ratio }), DepthBalanceTopK)

	return &Result{Reports: []model.Report{
		build("Highest buyer pressure", "OTOMATIK_DERINLIK_ALICILI", DepthBalanceTopK, depthHeader, buyers, depthRow.cells),
		build("Highest seller pressure", "OTOMATIK_DERINLIK_SATICILI", DepthBalanceTopK, depthHeader, sellers, depthRow.cells),
		build("All depth balances", "OTOMATIK_DERINLIK_TUM", 0, depthHeader, rows, depthRow.cells),
	}}, nil
}
