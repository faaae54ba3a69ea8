package strategy

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"DepthScan/internal/model"
)

func symbols(r model.Report) []string {
	out := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row[0]
	}
	return out
}

func expectSymbols(t *testing.T, r model.Report, want ...string) {
	t.Helper()
	got := symbols(r)
	if len(got) != len(want) {
		t.Fatalf("%s: expected %v, got %v", r.Prefix, want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: expected %v, got %v", r.Prefix, want, got)
		}
	}
}

func approx(t *testing.T, name string, got string, want float64) {
	t.Helper()
	if v := num(t, got); math.Abs(v-want) > 1e-3 {
		t.Errorf("%s: expected %.4f, got %v", name, want, v)
	}
}

var bidHeader = []string{"SEMBOL", "1 ALIS ADET", "1 ALIS", "2 ALIS ADET", "2 ALIS"}
var askHeader = []string{"SEMBOL", "1 SATIS ADET", "1 SATIS", "2 SATIS ADET", "2 SATIS"}

func TestSupportWall(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TableBidDepth: table(t, "bid", bidHeader,
			[]string{"AAA", "100", "10.0", "500", "9.8"},
			[]string{"BBB", "1000", "5.0", "200", "4.9"},
			[]string{"ZERO", "0", "10.0", "0", "9.9"},
		),
	})
	res, err := e.SupportWall(snap)
	if err != nil {
		t.Fatalf("SupportWall: %v", err)
	}
	all := report(t, res, "DESTEK_DUVARI_TUM")
	expectSymbols(t, all, "BBB", "AAA", "ZERO")

	tests := []struct {
		row   int
		price string
		lots  string
		total string
	}{
		{0, "5", "1000", "1200"},
		{1, "9.8", "500", "600"},
		{2, "0", "0", "0"},
	}
	for _, tt := range tests {
		if got := cell(t, all, tt.row, "MAJOR_DESTEK_FIYATI"); got != tt.price {
			t.Errorf("row %d price: expected %s, got %s", tt.row, tt.price, got)
		}
		if got := cell(t, all, tt.row, "DESTEK_LOT_MIKTARI"); got != tt.lots {
			t.Errorf("row %d lots: expected %s, got %s", tt.row, tt.lots, got)
		}
		if got := cell(t, all, tt.row, "TOPLAM_ALIS_DESTEGI"); got != tt.total {
			t.Errorf("row %d total: expected %s, got %s", tt.row, tt.total, got)
		}
	}
}

func TestResistanceWall_TopK(t *testing.T) {
	e := newTestEngine()
	rows := make([][]string, 0, WallTopK+2)
	for i := 1; i <= WallTopK+2; i++ {
		rows = append(rows, []string{fmt.Sprintf("S%02d", i), fmt.Sprint(i * 10), "10.5", "", ""})
	}
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TableAskDepth: table(t, "ask", askHeader, rows...),
	})
	res, err := e.ResistanceWall(snap)
	if err != nil {
		t.Fatalf("ResistanceWall: %v", err)
	}
	top := report(t, res, "DIRENC_DUVARI_EN_BASKILI")
	if len(top.Rows) != WallTopK {
		t.Fatalf("expected %d rows, got %d", WallTopK, len(top.Rows))
	}
	if top.Rows[0][0] != "S12" || top.Rows[WallTopK-1][0] != "S03" {
		t.Errorf("expected S12..S03 by total desc, got %v", symbols(top))
	}
	if n := len(report(t, res, "DIRENC_DUVARI_TUM").Rows); n != WallTopK+2 {
		t.Errorf("expected %d rows in the full report, got %d", WallTopK+2, n)
	}
}

func TestCriticalSupport(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TablePrices: table(t, "prices",
			[]string{"SEMBOL", "KAPANIS", "DUSUK", "DUSUK-1", "DUSUK-2", "DUSUK-3", "DUSUK-4"},
			[]string{"AAA", "10.5", "10.2", "10.0", "10.3", "10.4", "10.1"},
			[]string{"BBB", "20", "18", "18", "18", "18", "18"},
			[]string{"CCC", "30", "29", "29.5", "29.8", "29.2", "29.9"},
			[]string{"ZERO", "10.5", "10.0", "10.0", "10.0", "10.0", "10.0"},
		),
		model.TableBidDepth: table(t, "bid", bidHeader,
			[]string{"AAA", "100", "10.4", "900", "10.05"},
			[]string{"BBB", "500", "19.5", "", ""},
			[]string{"CCC", "300", "29.1", "50", "29.0"},
			[]string{"ZERO", "0", "10.0", "0", "9.9"},
			[]string{"ORPHAN", "100", "1.0", "", ""},
		),
	})
	res, err := e.CriticalSupport(snap)
	if err != nil {
		t.Fatalf("CriticalSupport: %v", err)
	}

	all := report(t, res, "KRITIK_DESTEK_TUM")
	expectSymbols(t, all, "AAA", "BBB", "CCC")
	tests := []struct {
		row      int
		low      float64
		wall     float64
		overlap  string
		distance float64
	}{
		{0, 10.0, 10.05, "VAR", 4.2857},
		{1, 18, 19.5, "YOK", 2.5},
		{2, 29, 29.1, "VAR", 3.0},
	}
	for _, tt := range tests {
		approx(t, "low", cell(t, all, tt.row, "TEKNIK_DIP_5G"), tt.low)
		approx(t, "wall", cell(t, all, tt.row, "TAHTA_ALIS_DUVARI"), tt.wall)
		approx(t, "distance", cell(t, all, tt.row, "DESTEGE_UZAKLIK_YUZDE"), tt.distance)
		if got := cell(t, all, tt.row, "CAKISMA_DURUMU"); got != tt.overlap {
			t.Errorf("row %d overlap: expected %s, got %s", tt.row, tt.overlap, got)
		}
	}

	expectSymbols(t, report(t, res, "KRITIK_DESTEK_CAKISAN"), "CCC", "AAA")
}

func TestCriticalResistance(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TablePrices: table(t, "prices",
			[]string{"SEMBOL", "KAPANIS", "YUKSEK", "YUKSEK-1", "YUKSEK-2", "YUKSEK-3", "YUKSEK-4"},
			[]string{"AAA", "10", "10.5", "10.3", "10.2", "10.1", "10.4"},
			[]string{"BBB", "20", "21", "21", "20.5", "20.8", "20.9"},
			[]string{"CCC", "30", "29.5", "29.5", "29.5", "29.5", "29.5"},
		),
		model.TableAskDepth: table(t, "ask", askHeader,
			[]string{"AAA", "200", "10.45", "", ""},
			[]string{"BBB", "100", "20.1", "800", "21.1"},
			[]string{"CCC", "1000", "29.6", "", ""},
		),
	})
	res, err := e.CriticalResistance(snap)
	if err != nil {
		t.Fatalf("CriticalResistance: %v", err)
	}
	all := report(t, res, "KRITIK_DIRENC_TUM")
	expectSymbols(t, all, "AAA", "BBB", "CCC")
	approx(t, "AAA distance", cell(t, all, 0, "DIRENCE_UZAKLIK_YUZDE"), 4.5)
	approx(t, "CCC distance", cell(t, all, 2, "DIRENCE_UZAKLIK_YUZDE"), -1.3333)

	// CCC overlaps but its wall sits below the close.
	hits := report(t, res, "KRITIK_DIRENC_CAKISAN")
	expectSymbols(t, hits, "BBB", "AAA")
	if got := cell(t, hits, 0, "DUVARDAKI_LOT"); got != "800" {
		t.Errorf("expected BBB wall of 800 lots, got %s", got)
	}
}

func TestCriticalSupport_ZeroLotWallDropped(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TablePrices: table(t, "prices",
			[]string{"SEMBOL", "KAPANIS", "DUSUK"},
			[]string{"AAA", "10.5", "10.0"},
		),
		model.TableBidDepth: table(t, "bid", bidHeader,
			[]string{"AAA", "0", "10.0", "0", "9.9"},
		),
	})
	res, err := e.CriticalSupport(snap)
	if err != nil {
		t.Fatalf("CriticalSupport: %v", err)
	}
	if n := len(report(t, res, "KRITIK_DESTEK_CAKISAN").Rows); n != 0 {
		t.Errorf("expected no overlap for a zero-lot side, got %d rows", n)
	}
	if n := len(report(t, res, "KRITIK_DESTEK_TUM").Rows); n != 0 {
		t.Errorf("expected the zero-lot side left out, got %d rows", n)
	}
}

func TestSpread(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TableBidDepth: table(t, "bid", []string{"SEMBOL", "1 ALIS"},
			[]string{"AAA", "10.00"},
			[]string{"BBB", "20"},
			[]string{"CCC", "5"},
			[]string{"DDD", "8"},
			[]string{"EEE", ""},
			[]string{"FFF", "3"},
		),
		model.TableAskDepth: table(t, "ask", []string{"SEMBOL", "1 SATIS"},
			[]string{"AAA", "10.02"},
			[]string{"BBB", "20.02"},
			[]string{"CCC", "5.05"},
			[]string{"DDD", "8"},
			[]string{"EEE", "3"},
		),
		model.TablePrices: table(t, "prices", []string{"SEMBOL", "YUKSEK", "DUSUK", "KAPANIS"},
			[]string{"AAA", "10.5", "10", "10.01"},
		),
	})
	res, err := e.Spread(snap)
	if err != nil {
		t.Fatalf("Spread: %v", err)
	}
	all := report(t, res, "SPREAD_ANALIZI_TUM")
	expectSymbols(t, all, "DDD", "BBB", "AAA", "CCC")
	approx(t, "AAA spread pct", cell(t, all, 2, "SPREAD_YUZDE"), 0.2)
	approx(t, "AAA range pct", cell(t, all, 2, "GUN_ICI_MARJ_YUZDE"), 5)
	approx(t, "CCC spread pct", cell(t, all, 3, "SPREAD_YUZDE"), 1)
	if got := cell(t, all, 1, "GUN_ICI_MARJ_YUZDE"); got != "0" {
		t.Errorf("expected no range without prices, got %s", got)
	}

	expectSymbols(t, report(t, res, "SPREAD_ANALIZI_DAR_MAKAS"), "BBB", "AAA")
}

func TestSpread_NarrowTopK(t *testing.T) {
	e := newTestEngine()
	var bids, asks [][]string
	for i := 1; i <= SpreadTopK+5; i++ {
		sym := fmt.Sprintf("S%02d", i)
		bids = append(bids, []string{sym, "100"})
		asks = append(asks, []string{sym, fmt.Sprintf("%.2f", 100+float64(i)*0.01)})
	}
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TableBidDepth: table(t, "bid", []string{"SEMBOL", "1 ALIS"}, bids...),
		model.TableAskDepth: table(t, "ask", []string{"SEMBOL", "1 SATIS"}, asks...),
	})
	res, err := e.Spread(snap)
	if err != nil {
		t.Fatalf("Spread: %v", err)
	}
	narrow := report(t, res, "SPREAD_ANALIZI_DAR_MAKAS")
	if len(narrow.Rows) != SpreadTopK {
		t.Fatalf("expected %d narrow spreads, got %d", SpreadTopK, len(narrow.Rows))
	}
	if narrow.Rows[0][0] != "S01" || narrow.Rows[SpreadTopK-1][0] != "S15" {
		t.Errorf("expected S01..S15 by spread asc, got %v", symbols(narrow))
	}
}

func squeezeSnapshot(t *testing.T, historyHeader []string, history ...[]string) *model.Snapshot {
	return snapshot(map[model.TableKind]*model.Table{
		model.TablePrices: table(t, "prices", []string{"SEMBOL", "KAPANIS", "HACIM", "HACIM-1"},
			[]string{"AAA", "10", "50", "100"},
			[]string{"BBB", "10", "100", "100"},
			[]string{"CCC", "100", "300", "100"},
		),
		model.TablePriceHistory: table(t, "history", historyHeader, history...),
	})
}

func TestSqueeze(t *testing.T) {
	e := newTestEngine()
	snap := squeezeSnapshot(t,
		[]string{"SEMBOL", "KAPANIS-1", "KAPANIS-2", "KAPANIS-3", "KAPANIS-4"},
		[]string{"AAA", "10", "10", "10", "10"},
		[]string{"BBB", "12", "8", "10", "10"},
		[]string{"CCC", "101", "99", "100", "100"},
	)
	res, err := e.Squeeze(snap)
	if err != nil {
		t.Fatalf("Squeeze: %v", err)
	}
	all := report(t, res, "SIKISMA_ALANI_TUM")
	expectSymbols(t, all, "AAA", "CCC", "BBB")

	tests := []struct {
		row   int
		score float64
		std   float64
		drop  string
	}{
		{0, 0, 0, "True"},
		{1, 0.7071, 0.7071, "False"},
		{2, 14.1421, 1.4142, "False"},
	}
	for _, tt := range tests {
		approx(t, "score", cell(t, all, tt.row, "SIKISMA_PUANI"), tt.score)
		approx(t, "std", cell(t, all, tt.row, "STD_DEV"), tt.std)
		if got := cell(t, all, tt.row, "HACIM_DUSUSU_VAR"); got != tt.drop {
			t.Errorf("row %d volume drop: expected %s, got %s", tt.row, tt.drop, got)
		}
	}
}

func TestSqueeze_TooFewCloseColumns(t *testing.T) {
	e := newTestEngine()
	snap := squeezeSnapshot(t,
		[]string{"SEMBOL", "KAPANIS-1", "KAPANIS-2", "KAPANIS-3"},
		[]string{"AAA", "10", "10", "10"},
	)
	if _, err := e.Squeeze(snap); !errors.Is(err, model.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

var demandPricesHeader = []string{"SEMBOL", "KAPANIS", "KAPANIS-1", "HACIM", "HACIM-1", "HACIM-2", "HACIM-3", "HACIM-4", "HACIM-5"}

func TestStrongDemand(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TablePrices: table(t, "prices", demandPricesHeader,
			[]string{"AAA", "105", "100", "300", "100", "100", "100", "100", "100"},
			[]string{"BBB", "103", "100", "200", "100", "100", "100", "100", "100"},
			[]string{"CCC", "105", "100", "300", "100", "100", "100", "100", "100"},
			[]string{"DDD", "101", "100", "300", "100", "100", "100", "100", "100"},
			[]string{"EEE", "105", "100", "120", "100", "100", "100", "100", "100"},
		),
		model.TableActiveTrades: table(t, "active", []string{"SEMBOL", "FARK"},
			[]string{"AAA", "1000"},
			[]string{"BBB", "50"},
			[]string{"CCC", "-10"},
			[]string{"DDD", "10"},
			[]string{"EEE", "10"},
		),
	})
	res, err := e.StrongDemand(snap)
	if err != nil {
		t.Fatalf("StrongDemand: %v", err)
	}
	strong := report(t, res, "GUCLU_TALEP")
	expectSymbols(t, strong, "AAA", "BBB")
	approx(t, "AAA relvol", cell(t, strong, 0, "ROLATIF_HACIM"), 3)
	approx(t, "BBB change", cell(t, strong, 1, "DEGISIM_YUZDE"), 3)
}

func TestStrongDemand_MissingVolumeHistory(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TablePrices: table(t, "prices", demandPricesHeader[:len(demandPricesHeader)-1],
			[]string{"AAA", "105", "100", "300", "100", "100", "100", "100"},
		),
		model.TableActiveTrades: table(t, "active", []string{"SEMBOL", "FARK"}, []string{"AAA", "1000"}),
	})
	if _, err := e.StrongDemand(snap); !errors.Is(err, model.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

var buyerHeader = []string{
	"SEMBOL", "ENIYI ALICI", "ENIYI ALICI",
	"NET ADET", "MALIYET", "NET ADET", "MALIYET", "NET ADET", "MALIYET", "NET ADET", "MALIYET",
}

func TestInstitutionalCost(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TableBestBuyer: table(t, "buyers", buyerHeader,
			[]string{"AAA", "1", "HSBC Yatirim", "100", "10", "300", "11", "", "", "100", "12"},
			[]string{"BBB", "1", "Yapi Kredi Yatirim", "1000", "20", "", "", "", "", "", ""},
			[]string{"CCC", "1", "Bireysel Ltd", "500", "5", "", "", "", "", "", ""},
			[]string{"DDD", "1", "CITIBANK", "800", "10", "", "", "", "", "", ""},
			[]string{"ORPHAN", "1", "HSBC", "800", "10", "", "", "", "", "", ""},
		),
		model.TablePrices: table(t, "prices", []string{"SEMBOL", "KAPANIS"},
			[]string{"AAA", "10.3"},
			[]string{"BBB", "20.5"},
			[]string{"CCC", "5"},
			[]string{"DDD", "12"},
		),
	})
	res, err := e.InstitutionalCost(snap)
	if err != nil {
		t.Fatalf("InstitutionalCost: %v", err)
	}
	all := report(t, res, "KURUMSAL_MALIYET_TUM")
	expectSymbols(t, all, "AAA", "BBB", "CCC", "DDD")

	tests := []struct {
		row           int
		institutional string
		topCost       float64
		topLots       string
		diff          float64
	}{
		{0, "True", 11, "500", 3},
		{1, "True", 20, "1000", 2.5},
		{2, "False", 5, "500", 0},
		{3, "True", 10, "800", 20},
	}
	for _, tt := range tests {
		if got := cell(t, all, tt.row, "ALICI_KURUMSAL_MI"); got != tt.institutional {
			t.Errorf("row %d institutional: expected %s, got %s", tt.row, tt.institutional, got)
		}
		if got := cell(t, all, tt.row, "TOPLANAN_LOT"); got != tt.topLots {
			t.Errorf("row %d lots: expected %s, got %s", tt.row, tt.topLots, got)
		}
		approx(t, "top cost", cell(t, all, tt.row, "ILK4_ORT_MALIYET"), tt.topCost)
		approx(t, "cost diff", cell(t, all, tt.row, "MALIYET_FARK_YUZDE"), tt.diff)
	}

	expectSymbols(t, report(t, res, "KURUMSAL_MALIYET_FIRSAT"), "BBB", "AAA")
}

func TestInstitutionalCost_MissingBuyerName(t *testing.T) {
	e := newTestEngine()
	snap := snapshot(map[model.TableKind]*model.Table{
		model.TableBestBuyer: table(t, "buyers", []string{"SEMBOL", "ENIYI ALICI", "NET ADET", "MALIYET"},
			[]string{"AAA", "HSBC", "100", "10"},
		),
		model.TablePrices: table(t, "prices", []string{"SEMBOL", "KAPANIS"}, []string{"AAA", "10"}),
	})
	if _, err := e.InstitutionalCost(snap); !errors.Is(err, model.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}
