package strategy

import (
	"fmt"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"
)

type squeezeRow struct {
	symbol     string
	close      float64
	score      float64
	stdDev     float64
	mean       float64
	volumeDrop bool
}

var (
	squeezeHeader    = []string{"SEMBOL", "KAPANIS", "SIKISMA_PUANI", "STD_DEV", "ORTALAMA_FIYAT", "HACIM_DUSUSU_VAR"}
	squeezeTopHeader = []string{"SEMBOL", "KAPANIS", "SIKISMA_PUANI", "HACIM_DUSUSU_VAR"}
)

func (r squeezeRow) cells() []string {
	return []string{r.symbol, f2s(r.close), f2s(r.score), f2s(r.stdDev), f2s(r.mean), b2s(r.volumeDrop)}
}

func (r squeezeRow) topCells() []string {
	return []string{r.symbol, f2s(r.close), f2s(r.score), b2s(r.volumeDrop)}
}

// joined reads a column from whichever of two joined rows carries it,
// preferring the first.
type joined struct {
	first, second *model.Table
	a, b          *fields
}

func (j joined) pick(col string) *fields {
	if j.first.Has(col) {
		return j.a
	}
	return j.b
}

func (j joined) has(col string) bool { return j.first.Has(col) || j.second.Has(col) }

// Squeeze ranks symbols by the coefficient of variation of their recent
// closes. Low scores mean the price has been coiling in a tight range.
func (e *Engine) Squeeze(snap *model.Snapshot) (*Result, error) {
	prices := snap.Table(model.TablePrices)
	history := snap.Table(model.TablePriceHistory)

	closeCols := append([]string{"KAPANIS"}, lagColumns("KAPANIS", 1, SqueezeLookback)...)
	probe := joined{first: prices, second: history}
	var present []string
	for _, c := range closeCols {
		if probe.has(c) {
			present = append(present, c)
		}
	}
	if len(present) < SqueezeMinSamples {
		return nil, fmt.Errorf("need at least %d close columns, found %d: %w", SqueezeMinSamples, len(present), model.ErrMissingColumn)
	}
	hasVolume := probe.has("HACIM") && probe.has("HACIM-1")

	rows := make([]squeezeRow, 0, prices.Len())
	for i := 0; i < prices.Len(); i++ {
		prow := prices.Row(i)
		sym := prow.Symbol()
		hrow, ok := history.Lookup(sym)
		if !ok {
			continue
		}
		j := joined{first: prices, second: history, a: read(prow), b: read(hrow)}

		closes := make([]float64, 0, len(present))
		for _, c := range present {
			if v, ok := j.pick(c).maybe(c); ok {
				closes = append(closes, v)
			}
		}
		last, hasLast := j.pick("KAPANIS").maybe("KAPANIS")
		r := squeezeRow{symbol: sym, close: last}
		if hasVolume {
			vol, okVol := j.pick("HACIM").maybe("HACIM")
			prev, okPrev := j.pick("HACIM-1").maybe("HACIM-1")
			r.volumeDrop = okVol && okPrev && vol < prev
		}
		for _, f := range []*fields{j.a, j.b} {
			if f.err != nil {
				return nil, fmt.Errorf("%s: %w", sym, f.err)
			}
		}
		if !hasLast || len(closes) < 2 {
			continue
		}

		mean, err := calculator.Mean(closes)
		if err != nil || mean == 0 {
			continue
		}
		std, err := calculator.SampleStdDev(closes)
		if err != nil {
			continue
		}
		r.mean, r.stdDev = mean, std
		r.score = std / mean * 100
		rows = append(rows, r)
	}

	rows = sorted(rows, func(a, b squeezeRow) bool { return a.score < b.score })
	return &Result{Reports: []model.Report{
		build("Tightest squeezes", "SIKISMA_ALANI_EN_SIKISIK", SqueezeTopK, squeezeTopHeader, head(rows, SqueezeTopK), squeezeRow.topCells),
		build("All squeeze scores", "SIKISMA_ALANI_TUM", 0, squeezeHeader, rows, squeezeRow.cells),
	}}, nil
}
