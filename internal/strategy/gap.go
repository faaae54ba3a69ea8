package strategy

import (
	"fmt"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"

	"go.uber.org/zap"
)

type gapRow struct {
	symbol string
	open   float64
	close  float64
	gap    float64
	perf   float64
	score  float64
}

var gapHeader = []string{"SEMBOL", "ACILIS", "KAPANIS", "GAP_YUZDE", "ACILIS_PERFORMANSI_YUZDE", "ISTAH_PUANI"}

func (r gapRow) cells() []string {
	return []string{r.symbol, f2s(r.open), f2s(r.close), f2s(r.gap), f2s(r.perf), f2s(r.score)}
}

// gapMetrics returns the opening gap against the previous close, the move
// from open to close and their sum, all in percent.
func gapMetrics(prevClose, open, close float64) (gap, perf, score float64) {
	gap = calculator.PctChange(prevClose, open)
	perf = calculator.PctChange(open, close)
	return gap, perf, gap + perf
}

// Gap separates gapped openings that kept climbing from ones that faded.
func (e *Engine) Gap(snap *model.Snapshot) (*Result, error) {
	t := snap.Table(model.TablePrices)
	hasPrev := t.Has("KAPANIS-1")
	if !hasPrev {
		e.log.Warn("previous close not present, gap treated as zero", zap.String("analysis", "gap"))
	}

	rows := make([]gapRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		f := read(t.Row(i))
		r := gapRow{symbol: f.row.Symbol(), open: f.num("ACILIS"), close: f.num("KAPANIS")}
		prev := 0.0
		if hasPrev {
			prev = f.num("KAPANIS-1")
		}
		if f.err != nil {
			return nil, fmt.Errorf("%s: %w", r.symbol, f.err)
		}
		if e.skip("gap", r.symbol, f) {
			continue
		}
		if hasPrev {
			r.gap, r.perf, r.score = gapMetrics(prev, r.open, r.close)
		} else {
			r.perf = calculator.PctChange(r.open, r.close)
			r.score = r.perf
		}
		rows = append(rows, r)
	}

	strong := head(sorted(filter(rows, func(r gapRow) bool {
		return r.gap > StrongGapMin && r.perf > StrongPerfMin
	}), func(a, b gapRow) bool { return a.score > b.score }), GapTopK)

	trap := head(sorted(filter(rows, func(r gapRow) bool {
		return r.gap > TrapGapMin && r.perf < TrapPerfMax
	}), func(a, b gapRow) bool { return a.perf < b.perf }), GapTopK)

	return &Result{Reports: []model.Report{
		build("Strong appetite: gapped up and kept rising", "GUCLU_ISTAH", GapTopK, gapHeader, strong, gapRow.cells),
		build("Opening trap: gapped up then sold off", "TUZAK_ACILIS", GapTopK, gapHeader, trap, gapRow.cells),
		build("All openings", "TUM_ACILIS_ANALIZI", 0, gapHeader, rows, gapRow.cells),
	}}, nil
}
