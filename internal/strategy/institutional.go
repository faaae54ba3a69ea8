package strategy

import (
	"fmt"
	"strings"

	"DepthScan/internal/model"
)

type institutionalRow struct {
	symbol        string
	buyer         string
	institutional bool
	buyerCost     float64
	topCost       float64
	close         float64
	costDiffPct   float64
	topLots       float64
}

var institutionalHeader = []string{
	"SEMBOL", "EN_IYI_ALICI", "ALICI_KURUMSAL_MI", "ALICI_1_MALIYET", "ILK4_ORT_MALIYET",
	"GUNCEL_FIYAT", "MALIYET_FARK_YUZDE", "TOPLANAN_LOT",
}

func (r institutionalRow) cells() []string {
	return []string{
		r.symbol, r.buyer, b2s(r.institutional), f2s(r.buyerCost), f2s(r.topCost),
		f2s(r.close), f2s(r.costDiffPct), i2s(r.topLots),
	}
}

// buyerSuffix returns the column suffix of the n-th best buyer block.
func buyerSuffix(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf(".%d", n)
}

// topBuyers sums the net lots of the first BuyerColumns buyers and their
// lot-weighted cost. Missing buyer blocks count as zero.
func topBuyers(f *fields) (lots, cost float64) {
	notional := 0.0
	for n := 0; n < BuyerColumns; n++ {
		var lot, price float64
		if n == 0 {
			lot, price = f.num("NET ADET"), f.num("MALIYET")
		} else {
			lot = f.opt("NET ADET"+buyerSuffix(n), 0)
			price = f.opt("MALIYET"+buyerSuffix(n), 0)
		}
		lots += lot
		notional += lot * price
	}
	if lots != 0 {
		cost = notional / lots
	}
	return lots, cost
}

func (e *Engine) isInstitution(name string) bool {
	upper := strings.ToUpper(name)
	for _, inst := range e.params.Institutions {
		if inst != "" && strings.Contains(upper, inst) {
			return true
		}
	}
	return false
}

// InstitutionalCost compares the best buyer's average cost with the close
// and flags known institutions trading near their cost.
func (e *Engine) InstitutionalCost(snap *model.Snapshot) (*Result, error) {
	buyers := snap.Table(model.TableBestBuyer)
	prices := snap.Table(model.TablePrices)
	if !buyers.Has("ENIYI ALICI.1") {
		return nil, fmt.Errorf("best buyer name: ENIYI ALICI.1: %w", model.ErrMissingColumn)
	}

	rows := make([]institutionalRow, 0, buyers.Len())
	for i := 0; i < buyers.Len(); i++ {
		brow := buyers.Row(i)
		sym := brow.Symbol()
		prow, ok := prices.Lookup(sym)
		if !ok {
			continue
		}
		bf, pf := read(brow), read(prow)
		r := institutionalRow{
			symbol:    sym,
			buyer:     bf.text("ENIYI ALICI.1"),
			buyerCost: bf.num("MALIYET"),
			close:     pf.num("KAPANIS"),
		}
		r.topLots, r.topCost = topBuyers(bf)
		for _, f := range []*fields{bf, pf} {
			if f.err != nil {
				return nil, fmt.Errorf("%s: %w", sym, f.err)
			}
		}
		if e.skip("institutional-cost", sym, bf) || e.skip("institutional-cost", sym, pf) {
			continue
		}
		if r.buyerCost > 0 {
			r.costDiffPct = (r.close - r.buyerCost) / r.buyerCost * 100
		}
		r.institutional = e.isInstitution(r.buyer)
		rows = append(rows, r)
	}

	near := sorted(filter(rows, func(r institutionalRow) bool {
		return r.institutional && r.costDiffPct > -InstitutionalBandPct && r.costDiffPct < InstitutionalBandPct
	}), func(a, b institutionalRow) bool { return a.topLots > b.topLots })

	return &Result{Reports: []model.Report{
		build("Institutions trading near their cost", "KURUMSAL_MALIYET_FIRSAT", InstitutionalPreview, institutionalHeader, near, institutionalRow.cells),
		build("All best-buyer costs", "KURUMSAL_MALIYET_TUM", 0, institutionalHeader, rows, institutionalRow.cells),
	}}, nil
}
