package strategy

import (
	"fmt"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"
)

type demandRow struct {
	symbol    string
	close     float64
	prevClose float64
	volume    float64
	avgVolume float64
	relVolume float64
	change    float64
	netLots   float64
}

var demandHeader = []string{
	"SEMBOL", "KAPANIS", "KAPANIS-1", "HACIM", "ORT_HACIM_5G", "ROLATIF_HACIM", "DEGISIM_YUZDE", "NET_PARA_GIRIS_LOT",
}

func (r demandRow) cells() []string {
	return []string{
		r.symbol, f2s(r.close), f2s(r.prevClose), f2s(r.volume), f2s(r.avgVolume),
		f2s(r.relVolume), f2s(r.change), f2s(r.netLots),
	}
}

// relativeVolume is today's volume over the average; zero when the average is zero.
func relativeVolume(volume, avg float64) float64 {
	if avg == 0 {
		return 0
	}
	return volume / avg
}

// StrongDemand finds volume bursts on rising prices with net buying.
func (e *Engine) StrongDemand(snap *model.Snapshot) (*Result, error) {
	prices := snap.Table(model.TablePrices)
	active := snap.Table(model.TableActiveTrades)
	for _, c := range lagColumns("HACIM", 1, VolumeAverageDays) {
		if !prices.Has(c) {
			return nil, fmt.Errorf("volume history: %s: %w", c, model.ErrMissingColumn)
		}
	}

	rows := make([]demandRow, 0, prices.Len())
	for i := 0; i < prices.Len(); i++ {
		prow := prices.Row(i)
		sym := prow.Symbol()
		arow, ok := active.Lookup(sym)
		if !ok {
			continue
		}
		pf, af := read(prow), read(arow)
		r := demandRow{
			symbol:    sym,
			close:     pf.num("KAPANIS"),
			prevClose: pf.num("KAPANIS-1"),
			volume:    pf.num("HACIM"),
			netLots:   af.num("FARK"),
		}
		avg, _ := volumeAverage(prices, pf)
		for _, f := range []*fields{pf, af} {
			if f.err != nil {
				return nil, fmt.Errorf("%s: %w", sym, f.err)
			}
		}
		if e.skip("strong-demand", sym, pf) || e.skip("strong-demand", sym, af) {
			continue
		}
		r.avgVolume = avg
		r.relVolume = relativeVolume(r.volume, avg)
		r.change = calculator.PctChange(r.prevClose, r.close)
		rows = append(rows, r)
	}

	strong := sorted(filter(rows, func(r demandRow) bool {
		return r.relVolume > DemandRelVolMin && r.change > DemandChangeMin && r.netLots > 0
	}), func(a, b demandRow) bool { return a.relVolume > b.relVolume })

	return &Result{Reports: []model.Report{
		build("Strong demand: volume, price and money flow", "GUCLU_TALEP", DemandPreview, demandHeader, strong, demandRow.cells),
	}}, nil
}
