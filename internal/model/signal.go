package model

// RuleScore represents a single scoring rule's outcome for one symbol.
type RuleScore struct {
	Name       string
	Points     int
	Awarded    bool
	Commentary string
}

// SignalTier maps a total score range to a label.
type SignalTier struct {
	Key   string
	Label string
}

// ScanScore is the per-symbol output of the big scan.
type ScanScore struct {
	Symbol      string
	Rules       []RuleScore
	Total       int
	Tier        SignalTier
	Whale       string
	WhaleCost   float64
	Close       float64
	Trend       string
	Theoretical string
}
