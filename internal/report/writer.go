package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"DepthScan/internal/model"

	"go.uber.org/zap"
)

// StampLayout is the timestamp suffix of every output file.
const StampLayout = "20060102_150405"

const bom = "\ufeff"

// Stamp formats t as an output file suffix.
func Stamp(t time.Time) string { return t.Format(StampLayout) }

// FileName returns PREFIX_stamp.csv.
func FileName(prefix, stamp string) string {
	return fmt.Sprintf("%s_%s.csv", prefix, stamp)
}

// Written is one report persisted to disk.
type Written struct {
	Prefix string
	Path   string
	Rows   int
}

// Writer persists reports as UTF-8 CSV files with a BOM.
type Writer struct {
	dir string
	log *zap.Logger
}

func NewWriter(dir string, log *zap.Logger) *Writer {
	return &Writer{dir: dir, log: log}
}

func (w *Writer) Dir() string { return w.dir }

// WriteAll writes every report of one analysis. Either all files are
// written or, on the first failure, the ones already written are removed.
func (w *Writer) WriteAll(stamp string, reports []model.Report) ([]Written, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	out := make([]Written, 0, len(reports))
	for _, r := range reports {
		path := filepath.Join(w.dir, FileName(r.Prefix, stamp))
		if err := writeCSV(path, r); err != nil {
			for _, done := range out {
				if rmErr := os.Remove(done.Path); rmErr != nil {
					w.log.Warn("remove partial report", zap.String("path", done.Path), zap.Error(rmErr))
				}
			}
			return nil, fmt.Errorf("write %s: %w", r.Prefix, err)
		}
		out = append(out, Written{Prefix: r.Prefix, Path: path, Rows: len(r.Rows)})
		w.log.Debug("report written", zap.String("path", path), zap.Int("rows", len(r.Rows)))
	}
	return out, nil
}

// writeCSV writes to a temp file in the same directory and renames it into place.
func writeCSV(path string, r model.Report) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+r.Prefix+"-*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(bom); err != nil {
		tmp.Close()
		return err
	}
	cw := csv.NewWriter(tmp)
	if err := cw.Write(r.Header); err != nil {
		tmp.Close()
		return err
	}
	if err := cw.WriteAll(r.Rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
