package strategy

import (
	"fmt"
	"math"
	"strings"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"
)

// Pattern labels as they appear in the reports.
const (
	LabelWash        = "HACIM VAR YON YOK (Fake Hacim)"
	LabelFakeSupport = "SAHTE DESTEK (Mal Cakma)"
	LabelSuppression = "BASKILAMA (Mal Toplama)"
)

type manipulationRow struct {
	symbol      string
	close       float64
	change      float64
	relVolume   float64
	activeNet   float64
	passiveNet  float64
	wash        bool
	fakeSupport bool
	suppression bool
}

var manipulationHeader = []string{
	"SEMBOL", "KAPANIS", "DEGISIM_YUZDE", "ROLATIF_HACIM", "AKTIF_NET_LOT", "PASIF_NET_LOT", "MANIPULASYON_TURU",
}

func (r manipulationRow) label() string {
	var labels []string
	if r.wash {
		labels = append(labels, LabelWash)
	}
	if r.fakeSupport {
		labels = append(labels, LabelFakeSupport)
	}
	if r.suppression {
		labels = append(labels, LabelSuppression)
	}
	return strings.Join(labels, " + ")
}

func (r manipulationRow) cells() []string {
	return []string{
		r.symbol, f2s(r.close), f2s(r.change), f2s(r.relVolume),
		f2s(r.activeNet), f2s(r.passiveNet), r.label(),
	}
}

// classify sets the three pattern flags.
//
// Wash: heavy volume without direction. Fake support: pending bids grow
// while executed flow is net selling and the price holds. Suppression:
// pending offers cap the price while executed flow is net buying.
func (r *manipulationRow) classify() {
	r.wash = r.relVolume > WashRelVolMin && math.Abs(r.change) < WashChangeMaxAbs
	r.fakeSupport = r.passiveNet > 0 && r.activeNet < 0 && r.change > FakeSupportChangeMin
	r.suppression = r.passiveNet < 0 && r.activeNet > 0
}

// Manipulation flags symbols whose executed and pending flows disagree.
func (e *Engine) Manipulation(snap *model.Snapshot) (*Result, error) {
	prices := snap.Table(model.TablePrices)
	active := snap.Table(model.TableActiveTrades)
	pending := snap.Table(model.TablePendingOrders)

	var rows []manipulationRow
	for i := 0; i < prices.Len(); i++ {
		prow := prices.Row(i)
		sym := prow.Symbol()
		arow, okA := active.Lookup(sym)
		qrow, okQ := pending.Lookup(sym)
		if !okA || !okQ {
			continue
		}
		pf, af, qf := read(prow), read(arow), read(qrow)
		r := manipulationRow{
			symbol:     sym,
			close:      pf.num("KAPANIS"),
			activeNet:  af.num("FARK"),
			passiveNet: qf.num("NET.EMIR.FARKI"),
		}
		prev := pf.num("KAPANIS-1")
		volume := pf.num("HACIM")
		avg, hasAvg := volumeAverage(prices, pf)
		for _, f := range []*fields{pf, af, qf} {
			if f.err != nil {
				return nil, fmt.Errorf("%s: %w", sym, f.err)
			}
		}
		if e.skip("manipulation", sym, pf) || e.skip("manipulation", sym, af) || e.skip("manipulation", sym, qf) {
			continue
		}
		r.relVolume = 1.0
		if hasAvg {
			r.relVolume = relativeVolume(volume, avg)
		}
		r.change = calculator.PctChange(prev, r.close)
		r.classify()
		if r.wash || r.fakeSupport || r.suppression {
			rows = append(rows, r)
		}
	}

	suppressed := sorted(filter(rows, func(r manipulationRow) bool { return r.suppression }),
		func(a, b manipulationRow) bool { return a.activeNet > b.activeNet })
	fake := sorted(filter(rows, func(r manipulationRow) bool { return r.fakeSupport }),
		func(a, b manipulationRow) bool { return a.activeNet < b.activeNet })

	return &Result{Reports: []model.Report{
		build("Suppression: price held down while lots are collected", "MANIPULASYON_BASKILAMA", ManipulationPreview, manipulationHeader, suppressed, manipulationRow.cells),
		build("Fake support: bids shown while lots are dumped", "MANIPULASYON_SAHTE_DESTEK", ManipulationPreview, manipulationHeader, fake, manipulationRow.cells),
		build("All suspicious symbols", "MANIPULASYON_TUM", 0, manipulationHeader, rows, manipulationRow.cells),
	}}, nil
}
