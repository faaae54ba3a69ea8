package strategy

import (
	"fmt"
	"sort"
	"strings"

	"DepthScan/internal/calculator"
	"DepthScan/internal/model"

	"go.uber.org/zap"
)

// Params are the knobs an operator may tune. Every other threshold is a
// named constant in thresholds.go.
type Params struct {
	DepthLevels    int
	WallMultiplier float64
	Institutions   []string
}

// DefaultParams returns the parameters the scans were calibrated with.
func DefaultParams() Params {
	return Params{
		DepthLevels:    calculator.DefaultDepthLevels,
		WallMultiplier: DefaultWallMultiplier,
		Institutions: []string{
			"BANK OF AMERICA", "CITIBANK", "DEUTSCHE", "HSBC", "YAPI KREDI", "IS YATIRIM", "TEB",
		},
	}
}

// Result is everything one analysis produced.
type Result struct {
	Reports []model.Report
	// Scores is only filled by the big scan.
	Scores []model.ScanScore
}

// Analysis is one read, compute, rank and report pipeline.
type Analysis struct {
	Name     string
	Title    string
	Requires []model.TableKind
	Optional []model.TableKind
	Run      func(snap *model.Snapshot) (*Result, error)
}

// Engine runs analyses over loaded snapshots.
type Engine struct {
	params Params
	log    *zap.Logger
	bid    calculator.Layout
	ask    calculator.Layout
}

// NewEngine builds the depth layouts once for the configured depth.
func NewEngine(p Params, log *zap.Logger) *Engine {
	if p.DepthLevels <= 0 {
		p.DepthLevels = calculator.DefaultDepthLevels
	}
	if p.WallMultiplier <= 0 {
		p.WallMultiplier = DefaultWallMultiplier
	}
	upper := make([]string, len(p.Institutions))
	for i, inst := range p.Institutions {
		upper[i] = strings.ToUpper(strings.TrimSpace(inst))
	}
	p.Institutions = upper
	return &Engine{
		params: p,
		log:    log,
		bid:    calculator.NewLayout(model.SideBid, p.DepthLevels),
		ask:    calculator.NewLayout(model.SideAsk, p.DepthLevels),
	}
}

// Analyses returns every analysis in execution order.
func (e *Engine) Analyses() []Analysis {
	prices := model.TablePrices
	history := model.TablePriceHistory
	bid := model.TableBidDepth
	ask := model.TableAskDepth
	buyer := model.TableBestBuyer
	active := model.TableActiveTrades
	pending := model.TablePendingOrders

	return []Analysis{
		{Name: "gap", Title: "Opening appetite and gap", Requires: kinds(prices), Run: e.Gap},
		{Name: "support-wall", Title: "Bid wall", Requires: kinds(bid), Run: e.SupportWall},
		{Name: "resistance-wall", Title: "Ask wall", Requires: kinds(ask), Run: e.ResistanceWall},
		{Name: "critical-support", Title: "Critical support", Requires: kinds(prices, bid), Run: e.CriticalSupport},
		{Name: "critical-resistance", Title: "Critical resistance", Requires: kinds(prices, ask), Run: e.CriticalResistance},
		{Name: "wapd", Title: "Weighted average price of depth", Requires: kinds(bid, ask), Optional: kinds(prices), Run: e.WAPD},
		{Name: "spread", Title: "Spread and intraday range", Requires: kinds(bid, ask), Optional: kinds(prices), Run: e.Spread},
		{Name: "squeeze", Title: "Price squeeze", Requires: kinds(prices, history), Run: e.Squeeze},
		{Name: "strong-demand", Title: "Strong demand and volume burst", Requires: kinds(prices, active), Run: e.StrongDemand},
		{Name: "institutional-cost", Title: "Institutional cost", Requires: kinds(buyer, prices), Run: e.InstitutionalCost},
		{Name: "manipulation", Title: "Manipulation patterns", Requires: kinds(prices, active, pending), Run: e.Manipulation},
		{Name: "big-scan", Title: "Big scan scoring", Requires: kinds(buyer, active, prices), Optional: kinds(pending, bid, ask), Run: e.BigScan},
		{Name: "level-balance", Title: "Active and passive balance", Requires: kinds(active, pending), Run: e.LevelBalance},
		{Name: "liquidity-wall", Title: "Liquidity wall", Requires: kinds(bid, ask), Optional: kinds(prices), Run: e.LiquidityWall},
		{Name: "depth-balance", Title: "Automatic depth balance", Requires: kinds(bid, ask), Run: e.DepthBalance},
	}
}

// SplitNames parses a comma separated analysis list, dropping blanks.
func SplitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Select returns the named analyses in execution order; no names selects all.
// Blank names are ignored.
func (e *Engine) Select(names []string) ([]Analysis, error) {
	all := e.Analyses()
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			want[n] = true
		}
	}
	if len(want) == 0 {
		return all, nil
	}
	var out []Analysis
	for _, a := range all {
		if want[a.Name] {
			out = append(out, a)
			delete(want, a.Name)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for n := range want {
			unknown = append(unknown, n)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown analyses: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

func kinds(k ...model.TableKind) []model.TableKind { return k }
