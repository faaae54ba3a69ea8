package strategy

// Gap, walls and critical levels
const (
	StrongGapMin      = 0.5
	StrongPerfMin     = 0.5
	TrapGapMin        = 1.0
	TrapPerfMax       = -0.5
	GapTopK           = 10
	WallTopK          = 10
	CriticalPreview   = 15
	OverlapMaxPct     = 1.0
	LowHighWindowDays = 5
)

// WAPD
const (
	// DistanceSentinel marks a distance that could not be computed.
	DistanceSentinel   = 999.0
	SafeSupportMinPct  = -5.0
	SafeSupportMaxPct  = 2.0
	RiskyResistanceMax = 2.0
	WAPDPreview        = 10
)

// Spread
const (
	NarrowSpreadMaxPct = 0.5
	SpreadTopK         = 15
)

// Squeeze
const (
	SqueezeLookback   = 10
	SqueezeMinSamples = 5
	SqueezeTopK       = 15
)

// Volume and demand
const (
	VolumeAverageDays    = 5
	DemandRelVolMin      = 1.5
	DemandChangeMin      = 2.0
	DemandPreview        = 15
	WashRelVolMin        = 2.0
	WashChangeMaxAbs     = 0.5
	FakeSupportChangeMin = -2.0
	ManipulationPreview  = 10
)

// Institutional cost
const (
	BuyerColumns         = 4
	InstitutionalBandPct = 5.0
	InstitutionalPreview = 15
)

// Big scan
const (
	WhaleShareMin = 0.20
	WhaleCostBand = 2.0
	BigScanTopK   = 20
	BigScanShortK = 10
)

// Liquidity wall and depth balance
const (
	DefaultWallMultiplier = 4.0
	LiquidityTopK         = 10
	DepthRatioNoSellers   = 100.0
	StrongBullRatio       = 2.0
	BuyerWeightedRatio    = 1.2
	StrongBearRatio       = 0.5
	SellerWeightedRatio   = 0.8
	DepthBalanceTopK      = 15
	LevelBalancePreview   = 10
)
