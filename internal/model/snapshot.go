package model

// TableKind names a snapshot input independent of its file name.
type TableKind string

const (
	TablePrices        TableKind = "prices"
	TablePriceHistory  TableKind = "price_history"
	TableBidDepth      TableKind = "bid_depth"
	TableAskDepth      TableKind = "ask_depth"
	TableBestBuyer     TableKind = "best_buyer"
	TableActiveTrades  TableKind = "active_trades"
	TablePendingOrders TableKind = "pending_orders"
)

// TableKinds lists every input in load order.
var TableKinds = []TableKind{
	TablePrices,
	TablePriceHistory,
	TableBidDepth,
	TableAskDepth,
	TableBestBuyer,
	TableActiveTrades,
	TablePendingOrders,
}

// Snapshot holds the tables one analysis reads. Optional tables that could
// not be loaded are simply absent.
type Snapshot struct {
	tables map[TableKind]*Table
}

func NewSnapshot() *Snapshot {
	return &Snapshot{tables: make(map[TableKind]*Table)}
}

func (s *Snapshot) Put(kind TableKind, t *Table) { s.tables[kind] = t }

// Table returns the table for kind, or nil when it is absent.
func (s *Snapshot) Table(kind TableKind) *Table { return s.tables[kind] }

func (s *Snapshot) Has(kind TableKind) bool {
	_, ok := s.tables[kind]
	return ok
}
