package collector

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"DepthScan/internal/model"

	"go.uber.org/zap"
)

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/bist/ACILISLAR-1.csv":
			_, _ = w.Write([]byte("SEMBOL,KAPANIS\nAKBNK,10.5\n"))
		case "/bist/BROKEN.csv":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/bist/", "secret", "")
	col := NewCollector(src, map[model.TableKind]string{
		model.TablePrices:       "ACILISLAR-1.csv",
		model.TablePriceHistory: "ACILISLAR-2.csv",
		model.TableBidDepth:     "BROKEN.csv",
	}, zap.NewNop())

	prices, err := col.Load(model.TablePrices)
	if err != nil {
		t.Fatalf("Load prices: %v", err)
	}
	if row, ok := prices.Lookup("AKBNK"); !ok {
		t.Error("AKBNK not loaded")
	} else if v, _ := row.Float("KAPANIS"); v != 10.5 {
		t.Errorf("expected 10.5, got %v", v)
	}

	if _, err := col.Load(model.TablePriceHistory); !errors.Is(err, ErrMissingTable) {
		t.Errorf("expected ErrMissingTable for a 404, got %v", err)
	}
	_, err = col.Load(model.TableBidDepth)
	if err == nil || errors.Is(err, ErrMissingTable) {
		t.Errorf("expected a transport error for a 500, got %v", err)
	}
}
