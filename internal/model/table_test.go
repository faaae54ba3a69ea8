package model

import (
	"errors"
	"testing"
)

func TestNewTable_DedupesHeader(t *testing.T) {
	header := []string{"SEMBOL", "ENIYI ALICI", "NET ADET", "ENIYI ALICI", "NET ADET", "NET ADET"}
	tbl, err := NewTable("maliyet", header, nil)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	want := []string{"SEMBOL", "ENIYI ALICI", "NET ADET", "ENIYI ALICI.1", "NET ADET.1", "NET ADET.2"}
	for i, h := range want {
		if tbl.Header[i] != h {
			t.Errorf("header[%d]: expected %q, got %q", i, h, tbl.Header[i])
		}
	}
}

func TestNewTable_RequiresSymbol(t *testing.T) {
	_, err := NewTable("x", []string{"KAPANIS"}, nil)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestRow_Float(t *testing.T) {
	tbl, err := NewTable("prices", []string{"SEMBOL", "KAPANIS", "ACILIS", "HACIM", "DUSUK", "YUKSEK-1"}, [][]string{
		{" THYAO ", "105.5", "", "abc", "-", "-4.5"},
		{"ASELS", "nan"},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	row, ok := tbl.Lookup("THYAO")
	if !ok {
		t.Fatal("expected THYAO to be found after trimming")
	}
	if v, err := row.Float("KAPANIS"); err != nil || v != 105.5 {
		t.Errorf("KAPANIS: expected 105.5, got %v (%v)", v, err)
	}
	if _, err := row.Float("ACILIS"); !errors.Is(err, ErrNullValue) {
		t.Errorf("ACILIS: expected ErrNullValue, got %v", err)
	}
	if _, err := row.Float("HACIM"); !errors.Is(err, ErrMalformed) {
		t.Errorf("HACIM: expected ErrMalformed, got %v", err)
	}
	if _, err := row.Float("DUSUK"); !errors.Is(err, ErrNullValue) {
		t.Errorf("DUSUK: expected ErrNullValue for a dash, got %v", err)
	}
	if v, err := row.Float("YUKSEK-1"); err != nil || v != -4.5 {
		t.Errorf("YUKSEK-1: expected -4.5, got %v (%v)", v, err)
	}
	if _, err := row.Float("YUKSEK"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("YUKSEK: expected ErrMissingColumn, got %v", err)
	}

	short, _ := tbl.Lookup("ASELS")
	if _, err := short.Float("HACIM"); !errors.Is(err, ErrNullValue) {
		t.Errorf("padded cell: expected ErrNullValue, got %v", err)
	}
}

func TestRow_ZeroValueActsAbsent(t *testing.T) {
	var r Row
	if r.Valid() {
		t.Fatal("zero row should not be valid")
	}
	if _, err := r.Float("KAPANIS"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{4.56, 1, 4.6},
		{-1.234, 2, -1.23},
		{12.345678, 2, 12.35},
		{7, 0, 7},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d): expected %v, got %v", tt.v, tt.places, tt.want, got)
		}
	}
}
