package strategy

import (
	"fmt"
	"math"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"
)

type wallRow struct {
	symbol string
	price  float64
	size   float64
	total  float64
}

func (r wallRow) cells() []string {
	return []string{r.symbol, f2s(r.price), i2s(r.size), i2s(r.total)}
}

type wallSpec struct {
	analysis string
	table    model.TableKind
	side     model.Side
	header   []string
	all      string
	top      string
	topTitle string
	allTitle string
}

// SupportWall ranks symbols by the total lots resting on the bid.
func (e *Engine) SupportWall(snap *model.Snapshot) (*Result, error) {
	return e.wall(snap, wallSpec{
		analysis: "support-wall",
		table:    model.TableBidDepth,
		side:     model.SideBid,
		header:   []string{"SEMBOL", "MAJOR_DESTEK_FIYATI", "DESTEK_LOT_MIKTARI", "TOPLAM_ALIS_DESTEGI"},
		all:      "DESTEK_DUVARI_TUM",
		top:      "DESTEK_DUVARI_EN_GUCLU",
		topTitle: "Strongest bid support",
		allTitle: "All bid walls",
	})
}

// ResistanceWall ranks symbols by the total lots resting on the ask.
func (e *Engine) ResistanceWall(snap *model.Snapshot) (*Result, error) {
	return e.wall(snap, wallSpec{
		analysis: "resistance-wall",
		table:    model.TableAskDepth,
		side:     model.SideAsk,
		header:   []string{"SEMBOL", "MAJOR_DIRENC_FIYATI", "DIRENC_LOT_MIKTARI", "TOPLAM_SATIS_BASKISI"},
		all:      "DIRENC_DUVARI_TUM",
		top:      "DIRENC_DUVARI_EN_BASKILI",
		topTitle: "Heaviest ask pressure",
		allTitle: "All ask walls",
	})
}

func (e *Engine) wall(snap *model.Snapshot, spec wallSpec) (*Result, error) {
	b := e.aggregate(spec.analysis, snap.Table(spec.table), spec.side)
	rows := make([]wallRow, 0, len(b.order))
	for _, sym := range b.order {
		agg := b.aggs[sym]
		price, size, total, _ := floats(agg)
		rows = append(rows, wallRow{symbol: sym, price: price, size: size, total: total})
	}
	rows = sorted(rows, func(a, b wallRow) bool { return a.total > b.total })

	return &Result{Reports: []model.Report{
		build(spec.topTitle, spec.top, WallTopK, spec.header, head(rows, WallTopK), wallRow.cells),
		build(spec.allTitle, spec.all, 0, spec.header, rows, wallRow.cells),
	}}, nil
}

type criticalRow struct {
	symbol   string
	close    float64
	extreme  float64
	wall     float64
	wallSize float64
	overlap  bool
	distance float64
}

func (r criticalRow) cells() []string {
	overlap := "YOK"
	if r.overlap {
		overlap = "VAR"
	}
	return []string{r.symbol, f2s(r.close), f2s(r.extreme), f2s(r.wall), i2s(r.wallSize), overlap, f2s(r.distance)}
}

// CriticalSupport finds bid walls sitting on the five-day low.
func (e *Engine) CriticalSupport(snap *model.Snapshot) (*Result, error) {
	header := []string{"SEMBOL", "GUNCEL_FIYAT", "TEKNIK_DIP_5G", "TAHTA_ALIS_DUVARI", "DUVARDAKI_LOT", "CAKISMA_DURUMU", "DESTEGE_UZAKLIK_YUZDE"}
	rows, err := e.critical(snap, "critical-support", model.TableBidDepth, model.SideBid, "DUSUK",
		func(values []float64) float64 {
			_, low, _ := calculator.CalculateRange(values)
			return low
		},
		func(last, wall float64) float64 {
			d, _ := calculator.DistancePct(last, wall)
			return d
		},
	)
	if err != nil {
		return nil, err
	}
	hits := sorted(filter(rows, func(r criticalRow) bool { return r.overlap && r.distance > 0 }),
		func(a, b criticalRow) bool { return a.distance < b.distance })

	return &Result{Reports: []model.Report{
		build("Critical supports: bid wall on the technical low", "KRITIK_DESTEK_CAKISAN", CriticalPreview, header, hits, criticalRow.cells),
		build("All critical support checks", "KRITIK_DESTEK_TUM", 0, header, rows, criticalRow.cells),
	}}, nil
}

// CriticalResistance finds ask walls sitting on the five-day high.
func (e *Engine) CriticalResistance(snap *model.Snapshot) (*Result, error) {
	header := []string{"SEMBOL", "GUNCEL_FIYAT", "TEKNIK_ZIRVE_5G", "TAHTA_SATIS_DUVARI", "DUVARDAKI_LOT", "CAKISMA_DURUMU", "DIRENCE_UZAKLIK_YUZDE"}
	rows, err := e.critical(snap, "critical-resistance", model.TableAskDepth, model.SideAsk, "YUKSEK",
		func(values []float64) float64 {
			high, _, _ := calculator.CalculateRange(values)
			return high
		},
		func(last, wall float64) float64 { return (wall - last) / last * 100 },
	)
	if err != nil {
		return nil, err
	}
	hits := sorted(filter(rows, func(r criticalRow) bool { return r.overlap && r.distance > 0 }),
		func(a, b criticalRow) bool { return a.wallSize > b.wallSize })

	return &Result{Reports: []model.Report{
		build("Critical resistances: ask wall on the technical high", "KRITIK_DIRENC_CAKISAN", CriticalPreview, header, hits, criticalRow.cells),
		build("All critical resistance checks", "KRITIK_DIRENC_TUM", 0, header, rows, criticalRow.cells),
	}}, nil
}

// critical compares each symbol's wall with the extreme of base, base-1 ..
// base-4. Symbols without a priced wall or without any of those columns are
// left out.
func (e *Engine) critical(snap *model.Snapshot, analysis string, kind model.TableKind, side model.Side,
	base string, extreme func([]float64) float64, distance func(last, wall float64) float64) ([]criticalRow, error) {
	prices := snap.Table(model.TablePrices)
	b := e.aggregate(analysis, snap.Table(kind), side)
	cols := append([]string{base}, lagColumns(base, 1, LowHighWindowDays-1)...)

	rows := make([]criticalRow, 0, len(b.order))
	for _, sym := range b.order {
		agg := b.aggs[sym]
		prow, ok := prices.Lookup(sym)
		if !ok || !agg.HasLots() {
			continue
		}
		f := read(prow)
		last := f.num("KAPANIS")
		values := series(f, cols)
		if f.err != nil {
			return nil, fmt.Errorf("%s: %w", sym, f.err)
		}
		if e.skip(analysis, sym, f) || len(values) == 0 || last <= 0 {
			continue
		}
		wall, wallSize, _, _ := floats(agg)
		if wall <= 0 {
			continue
		}
		ext := extreme(values)
		overlap := false
		if ext > 0 {
			overlap = math.Abs(wall-ext)/ext*100 < OverlapMaxPct
		}
		rows = append(rows, criticalRow{
			symbol:   sym,
			close:    last,
			extreme:  ext,
			wall:     wall,
			wallSize: wallSize,
			overlap:  overlap,
			distance: distance(last, wall),
		})
	}
	return rows, nil
}
