package strategy

import (
	"fmt"

	"DepthScan/internal/model"
)

// scanInput is one joined row of the big scan. Optional inputs carry a
// has flag; a rule whose input is missing is never awarded.
type scanInput struct {
	Whale      string
	WhaleLots  float64
	WhaleCost  float64
	TradedLots float64
	AvgPrice   float64
	ActiveBuy  float64
	ActiveSell float64
	Close      float64
	High       float64
	Low        float64

	PendingNet float64
	HasPending bool
	BidDepth   float64
	AskDepth   float64
	HasDepth   bool
}

func rule(name string, points int, awarded bool, commentary string) model.RuleScore {
	r := model.RuleScore{Name: name, Commentary: commentary, Awarded: awarded}
	if awarded {
		r.Points = points
	}
	return r
}

// scoreWhaleShare awards the best buyer holding a large share of traded lots.
// Points: 20
func scoreWhaleShare(in *scanInput) model.RuleScore {
	share := 0.0
	if in.TradedLots != 0 {
		share = in.WhaleLots / in.TradedLots * 100
	}
	return rule("whale_share", 20, in.WhaleLots > in.TradedLots*WhaleShareMin,
		fmt.Sprintf("share %.1f%%", share))
}

// scoreWhaleCost awards a close within the band around the whale's cost.
// Points: 20
func scoreWhaleCost(in *scanInput) model.RuleScore {
	if in.WhaleCost <= 0 {
		return rule("whale_cost", 20, false, "cost unavailable")
	}
	diff := (in.Close - in.WhaleCost) / in.WhaleCost * 100
	return rule("whale_cost", 20, diff >= -WhaleCostBand && diff <= WhaleCostBand,
		fmt.Sprintf("diff %+.2f%%", diff))
}

// scoreAboveAverage awards a close above the session average price.
// Points: 15
func scoreAboveAverage(in *scanInput) model.RuleScore {
	return rule("above_average", 15, in.Close > in.AvgPrice,
		fmt.Sprintf("close %.2f vs avg %.2f", in.Close, in.AvgPrice))
}

// scoreMoneyFlow awards more executed buying than selling.
// Points: 15
func scoreMoneyFlow(in *scanInput) model.RuleScore {
	return rule("money_flow", 15, in.ActiveBuy > in.ActiveSell,
		fmt.Sprintf("buy %.0f vs sell %.0f", in.ActiveBuy, in.ActiveSell))
}

// scorePendingIntent awards net pending buy orders.
// Points: 10
func scorePendingIntent(in *scanInput) model.RuleScore {
	if !in.HasPending {
		return rule("pending_intent", 10, false, "pending orders unavailable")
	}
	return rule("pending_intent", 10, in.PendingNet > 0, fmt.Sprintf("net %.0f", in.PendingNet))
}

// scoreAbovePivot awards a close above the classic pivot (H+L+C)/3.
// Points: 10
func scoreAbovePivot(in *scanInput) model.RuleScore {
	pivot := (in.High + in.Low + in.Close) / 3
	return rule("above_pivot", 10, in.Close > pivot, fmt.Sprintf("pivot %.2f", pivot))
}

// scoreDepthSupport awards a deeper bid book than ask book.
// Points: 10
func scoreDepthSupport(in *scanInput) model.RuleScore {
	if !in.HasDepth {
		return rule("depth_support", 10, false, "depth unavailable")
	}
	return rule("depth_support", 10, in.BidDepth > in.AskDepth,
		fmt.Sprintf("bid %.0f vs ask %.0f", in.BidDepth, in.AskDepth))
}
