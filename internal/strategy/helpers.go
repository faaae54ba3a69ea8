package strategy

import (
	"errors"
	"sort"
	"strconv"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"

	"go.uber.org/zap"
)

// fields reads numeric cells from one row and remembers the first hard
// failure. Required cells that are empty mark the row as skippable.
type fields struct {
	row  model.Row
	err  error
	null []string
}

func read(row model.Row) *fields { return &fields{row: row} }

// num reads a required number. A missing column or malformed cell is an error.
func (f *fields) num(col string) float64 {
	v, err := f.row.Float(col)
	switch {
	case err == nil:
		return v
	case errors.Is(err, model.ErrNullValue):
		f.null = append(f.null, col)
	default:
		f.fail(err)
	}
	return 0
}

// opt reads an optional number, falling back to def when the column or cell
// is absent. Malformed cells are still an error.
func (f *fields) opt(col string, def float64) float64 {
	v, ok := f.maybe(col)
	if !ok {
		return def
	}
	return v
}

// maybe reports whether an optional number is present.
func (f *fields) maybe(col string) (float64, bool) {
	v, err := f.row.Float(col)
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, model.ErrNullValue), errors.Is(err, model.ErrMissingColumn):
	default:
		f.fail(err)
	}
	return 0, false
}

func (f *fields) text(col string) string {
	s, _ := f.row.String(col)
	return s
}

func (f *fields) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// skip logs and reports whether the row must be left out because a required
// cell was empty.
func (e *Engine) skip(analysis, symbol string, f *fields) bool {
	if len(f.null) == 0 {
		return false
	}
	e.log.Debug("symbol skipped, required field empty",
		zap.String("analysis", analysis),
		zap.String("symbol", symbol),
		zap.Strings("fields", f.null),
	)
	return true
}

// book is one side of the order book aggregated for every symbol of a table.
type book struct {
	side  model.Side
	order []string
	aggs  map[string]model.DepthAggregate
}

func (b *book) get(symbol string) (model.DepthAggregate, bool) {
	if b == nil {
		return model.DepthAggregate{}, false
	}
	agg, ok := b.aggs[symbol]
	return agg, ok
}

// aggregate resolves the layout against t once and aggregates every row.
// Levels dropped for bad cells are logged per symbol.
func (e *Engine) aggregate(analysis string, t *model.Table, side model.Side) *book {
	if t == nil {
		return nil
	}
	layout := e.bid
	if side == model.SideAsk {
		layout = e.ask
	}
	layout, missing := layout.Resolve(t)
	if len(missing) > 0 {
		e.log.Debug("depth ranks not present in table",
			zap.String("analysis", analysis),
			zap.String("table", t.Name),
			zap.Ints("ranks", missing),
		)
	}

	b := &book{side: side, aggs: make(map[string]model.DepthAggregate, t.Len())}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		sym := row.Symbol()
		if _, dup := b.aggs[sym]; dup {
			continue
		}
		agg, skipped := layout.AggregateRow(row)
		for _, err := range skipped {
			e.log.Warn("depth level skipped",
				zap.String("analysis", analysis),
				zap.String("symbol", sym),
				zap.String("side", string(side)),
				zap.Error(err),
			)
		}
		b.order = append(b.order, sym)
		b.aggs[sym] = agg
	}
	return b
}

// floats converts the decimal figures of an aggregate for ratio arithmetic.
// The wall price is zero when the side holds no lots.
func floats(agg model.DepthAggregate) (wall, wallSize, total, wapd float64) {
	if agg.HasLots() {
		wall = agg.Wall.Price.InexactFloat64()
	}
	return wall, agg.Wall.Size.InexactFloat64(),
		agg.TotalSize.InexactFloat64(), agg.WAPD.InexactFloat64()
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// sorted returns a stably sorted copy.
func sorted[T any](rows []T, less func(a, b T) bool) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func head[T any](rows []T, n int) []T {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}

func tail[T any](rows []T, n int) []T {
	if len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}

func build[T any](title, prefix string, preview int, header []string, rows []T, cells func(T) []string) model.Report {
	r := model.Report{
		Title:   title,
		Prefix:  prefix,
		Header:  header,
		Preview: preview,
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		r.Rows = append(r.Rows, cells(row))
	}
	return r
}

// series collects the values of cols that are present. Absent columns and
// empty cells are left out.
func series(f *fields, cols []string) []float64 {
	out := make([]float64, 0, len(cols))
	for _, c := range cols {
		if v, ok := f.maybe(c); ok {
			out = append(out, v)
		}
	}
	return out
}

// volumeAverage is the mean of HACIM-1..HACIM-5; ok is false when any of
// those columns is absent from the table.
func volumeAverage(t *model.Table, f *fields) (float64, bool) {
	cols := lagColumns("HACIM", 1, VolumeAverageDays)
	for _, c := range cols {
		if !t.Has(c) {
			return 0, false
		}
	}
	vols := make([]float64, 0, len(cols))
	for _, c := range cols {
		vols = append(vols, f.num(c))
	}
	avg, err := calculator.CalculateSMA(vols, VolumeAverageDays)
	if err != nil {
		return 0, false
	}
	return avg, true
}

// lagColumns returns base-from .. base-to, e.g. DUSUK-1..DUSUK-4.
func lagColumns(base string, from, to int) []string {
	cols := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		cols = append(cols, base+"-"+strconv.Itoa(i))
	}
	return cols
}

var (
	f2s = model.FormatFloat
	i2s = model.FormatInt
	b2s = model.FormatBool
)
