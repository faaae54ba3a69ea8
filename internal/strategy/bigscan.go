package strategy

import (
	"fmt"

	"DepthScan/internal/model"
)

// Tiers maps a total score to a signal, highest first.
var Tiers = []struct {
	MinScore int
	Tier     model.SignalTier
}{
	{80, model.SignalTier{Key: "mega_bull", Label: "🚀 MEGA BOĞA"}},
	{60, model.SignalTier{Key: "strong_buy", Label: "🟢 GÜÇLÜ AL"}},
	{40, model.SignalTier{Key: "watch", Label: "🟡 İZLE"}},
}

// DefaultTier is the signal for scores below every tier.
var DefaultTier = model.SignalTier{Key: "sell", Label: "🔴 SAT / NEGATİF"}

func mapTier(total int) model.SignalTier {
	for _, t := range Tiers {
		if total >= t.MinScore {
			return t.Tier
		}
	}
	return DefaultTier
}

// scoreSymbol evaluates every big-scan rule for one joined row.
func scoreSymbol(symbol string, in *scanInput) model.ScanScore {
	rules := []model.RuleScore{
		scoreWhaleShare(in),
		scoreWhaleCost(in),
		scoreAboveAverage(in),
		scoreMoneyFlow(in),
		scorePendingIntent(in),
		scoreAbovePivot(in),
		scoreDepthSupport(in),
	}
	total := 0
	for _, r := range rules {
		total += r.Points
	}

	s := model.ScanScore{
		Symbol:    symbol,
		Rules:     rules,
		Total:     total,
		Tier:      mapTier(total),
		Whale:     "ZAYIF",
		WhaleCost: model.Round(in.WhaleCost, 2),
		Close:     in.Close,
	}
	if rules[0].Awarded {
		s.Whale = fmt.Sprintf("TOPLUYOR (%s)", in.Whale)
	}
	trendUp, flowIn := rules[2].Awarded, rules[3].Awarded
	switch {
	case trendUp && flowIn:
		s.Trend = "POZİTİF"
	case trendUp || flowIn:
		s.Trend = "KARIŞIK"
	default:
		s.Trend = "NEGATİF"
	}
	s.Theoretical = "SATICILI"
	if rules[4].Awarded {
		s.Theoretical = "ALICILI"
	}
	return s
}

var bigScanHeader = []string{"SEMBOL", "SKOR", "SİNYAL", "BALINA_DURUMU", "TREND", "TEORİK", "FİYAT", "BALINA_MLYT"}

func scoreCells(s model.ScanScore) []string {
	return []string{
		s.Symbol, i2s(float64(s.Total)), s.Tier.Label, s.Whale, s.Trend, s.Theoretical,
		f2s(s.Close), f2s(s.WhaleCost),
	}
}

// BigScan scores every symbol on whale strength, trend, pending intent and
// depth support.
func (e *Engine) BigScan(snap *model.Snapshot) (*Result, error) {
	buyers := snap.Table(model.TableBestBuyer)
	active := snap.Table(model.TableActiveTrades)
	prices := snap.Table(model.TablePrices)
	pending := snap.Table(model.TablePendingOrders)
	bids := e.aggregate("big-scan", snap.Table(model.TableBidDepth), model.SideBid)
	asks := e.aggregate("big-scan", snap.Table(model.TableAskDepth), model.SideAsk)

	var scores []model.ScanScore
	for i := 0; i < buyers.Len(); i++ {
		brow := buyers.Row(i)
		sym := brow.Symbol()
		arow, okA := active.Lookup(sym)
		prow, okP := prices.Lookup(sym)
		if !okA || !okP {
			continue
		}
		bf, af, pf := read(brow), read(arow), read(prow)
		in := &scanInput{
			Whale:      bf.text("ENIYI ALICI.1"),
			WhaleLots:  bf.num("NET ADET"),
			WhaleCost:  bf.num("MALIYET"),
			TradedLots: af.num("TOPLAM"),
			AvgPrice:   af.num("AORT"),
			ActiveBuy:  af.num("ALIS"),
			ActiveSell: af.num("SATIS"),
			Close:      pf.num("KAPANIS"),
			High:       pf.num("YUKSEK"),
			Low:        pf.num("DUSUK"),
		}
		qf := read(model.Row{})
		if qrow, ok := pending.Lookup(sym); ok {
			qf = read(qrow)
			in.PendingNet, in.HasPending = qf.maybe("NET.EMIR.FARKI")
		}
		bid, okB := bids.get(sym)
		ask, okS := asks.get(sym)
		if okB && okS {
			_, _, in.BidDepth, _ = floats(bid)
			_, _, in.AskDepth, _ = floats(ask)
			in.HasDepth = true
		}
		for _, f := range []*fields{bf, af, pf, qf} {
			if f.err != nil {
				return nil, fmt.Errorf("%s: %w", sym, f.err)
			}
		}
		if e.skip("big-scan", sym, bf) || e.skip("big-scan", sym, af) || e.skip("big-scan", sym, pf) {
			continue
		}
		scores = append(scores, scoreSymbol(sym, in))
	}

	ranked := sorted(scores, func(a, b model.ScanScore) bool { return a.Total > b.Total })
	return &Result{
		Reports: []model.Report{
			build("Big scan: best candidates", "BUYUK_TARAMA_EN_IYI", BigScanTopK, bigScanHeader, head(ranked, BigScanTopK), scoreCells),
			build("Big scan: lowest scores", "BUYUK_TARAMA_SHORT_ADAY", BigScanShortK, bigScanHeader, tail(ranked, BigScanShortK), scoreCells),
			build("Big scan: all symbols", "BUYUK_TARAMA_TUM", 0, bigScanHeader, ranked, scoreCells),
		},
		Scores: ranked,
	}, nil
}
