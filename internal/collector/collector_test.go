package collector

import (
	"errors"
	"strings"
	"testing"

	"DepthScan/internal/model"

	"go.uber.org/zap"
)

func newTestCollector(files map[string]string) *Collector {
	return NewCollector(&MemorySource{Files: files}, nil, zap.NewNop())
}

func TestReadTable_StripsBOMAndDedupes(t *testing.T) {
	body := "\ufeffSEMBOL,ENIYI ALICI,NET ADET,ENIYI ALICI,NET ADET\nTHYAO,A,10,BANK OF AMERICA,5\n"
	tbl, err := ReadTable("MALIYET_ALICI-1.csv", strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Header[0] != "SEMBOL" {
		t.Fatalf("BOM not stripped: %q", tbl.Header[0])
	}
	row, ok := tbl.Lookup("THYAO")
	if !ok {
		t.Fatal("THYAO not found")
	}
	if name, _ := row.String("ENIYI ALICI.1"); name != "BANK OF AMERICA" {
		t.Errorf("expected second buyer name, got %q", name)
	}
	if v, err := row.Float("NET ADET.1"); err != nil || v != 5 {
		t.Errorf("expected NET ADET.1 = 5, got %v (%v)", v, err)
	}
}

func TestReadTable_RaggedRecords(t *testing.T) {
	body := "SEMBOL,KAPANIS,HACIM\nAKBNK,50.1\nGARAN,100,2000,extra\n"
	tbl, err := ReadTable("p.csv", strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
}

func TestReadTable_Empty(t *testing.T) {
	if _, err := ReadTable("empty.csv", strings.NewReader("")); err == nil {
		t.Fatal("expected error for an empty file")
	}
}

func TestSnapshot_RequiredMissing(t *testing.T) {
	c := newTestCollector(map[string]string{
		"ACILISLAR-1.csv": "SEMBOL,KAPANIS\nAKBNK,50\n",
	})
	_, err := c.Snapshot([]model.TableKind{model.TablePrices, model.TableBidDepth}, nil)
	if !errors.Is(err, ErrMissingTable) {
		t.Fatalf("expected ErrMissingTable, got %v", err)
	}
}

func TestSnapshot_OptionalMissing(t *testing.T) {
	c := newTestCollector(map[string]string{
		"DERINLIK_ALIS-1.csv":  "SEMBOL,1 ALIS ADET,1 ALIS\nAKBNK,10,50\n",
		"DERINLIK_SATIS-1.csv": "SEMBOL,1 SATIS ADET,1 SATIS\nAKBNK,12,50.05\n",
	})
	snap, err := c.Snapshot(
		[]model.TableKind{model.TableBidDepth, model.TableAskDepth},
		[]model.TableKind{model.TablePrices},
	)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Has(model.TablePrices) {
		t.Error("prices should be absent")
	}
	if !snap.Has(model.TableBidDepth) || !snap.Has(model.TableAskDepth) {
		t.Error("depth tables should be present")
	}
}

func TestLoad_Caches(t *testing.T) {
	src := &MemorySource{Files: map[string]string{"ACILISLAR-1.csv": "SEMBOL,KAPANIS\nAKBNK,50\n"}}
	c := NewCollector(src, nil, zap.NewNop())
	first, err := c.Load(model.TablePrices)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	delete(src.Files, "ACILISLAR-1.csv")
	second, err := c.Load(model.TablePrices)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Error("expected the cached table on the second load")
	}
}
