package collector

import (
	"errors"
	"fmt"
	"io/fs"

	"DepthScan/internal/model"

	"go.uber.org/zap"
)

// ErrMissingTable is returned when a snapshot input cannot be found.
var ErrMissingTable = errors.New("missing input table")

// DefaultFiles maps each input to the file name the terminal export uses.
var DefaultFiles = map[model.TableKind]string{
	model.TablePrices:        "ACILISLAR-1.csv",
	model.TablePriceHistory:  "ACILISLAR-2.csv",
	model.TableBidDepth:      "DERINLIK_ALIS-1.csv",
	model.TableAskDepth:      "DERINLIK_SATIS-1.csv",
	model.TableBestBuyer:     "MALIYET_ALICI-1.csv",
	model.TableActiveTrades:  "KADEME_ANALIZI.csv",
	model.TablePendingOrders: "BEKLEYEN_EMIRLER.csv",
}

// Collector loads snapshot tables once per run and hands out snapshots to
// analyses. It is not safe for concurrent use.
type Collector struct {
	Source Source
	Files  map[model.TableKind]string
	log    *zap.Logger
	cache  map[model.TableKind]*model.Table
	failed map[model.TableKind]error
}

// NewCollector creates a new Collector. A nil files map uses DefaultFiles.
func NewCollector(src Source, files map[model.TableKind]string, log *zap.Logger) *Collector {
	if files == nil {
		files = DefaultFiles
	}
	return &Collector{
		Source: src,
		Files:  files,
		log:    log,
		cache:  make(map[model.TableKind]*model.Table),
		failed: make(map[model.TableKind]error),
	}
}

// Load reads and parses one table, caching both the result and the failure.
func (c *Collector) Load(kind model.TableKind) (*model.Table, error) {
	if t, ok := c.cache[kind]; ok {
		return t, nil
	}
	if err, ok := c.failed[kind]; ok {
		return nil, err
	}
	t, err := c.load(kind)
	if err != nil {
		c.failed[kind] = err
		return nil, err
	}
	c.cache[kind] = t
	c.log.Debug("table loaded",
		zap.String("table", string(kind)),
		zap.String("file", t.Name),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Header)),
	)
	return t, nil
}

func (c *Collector) load(kind model.TableKind) (*model.Table, error) {
	name := c.Files[kind]
	if name == "" {
		return nil, fmt.Errorf("%s: no file configured: %w", kind, ErrMissingTable)
	}
	rc, err := c.Source.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s (%s in %s): %w", kind, name, c.Source.Name(), ErrMissingTable)
		}
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	defer rc.Close()

	t, err := ReadTable(name, rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return t, nil
}

// Snapshot loads the required tables, failing on the first one that is
// unavailable, and the optional tables, logging and skipping those that are not.
func (c *Collector) Snapshot(required, optional []model.TableKind) (*model.Snapshot, error) {
	snap := model.NewSnapshot()
	for _, kind := range required {
		t, err := c.Load(kind)
		if err != nil {
			return nil, err
		}
		snap.Put(kind, t)
	}
	for _, kind := range optional {
		t, err := c.Load(kind)
		if err != nil {
			c.log.Warn("optional table unavailable, continuing without it",
				zap.String("table", string(kind)),
				zap.Error(err),
			)
			continue
		}
		snap.Put(kind, t)
	}
	return snap, nil
}
