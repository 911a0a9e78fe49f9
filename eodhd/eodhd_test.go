package eodhd

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/perform"
	"github.com/etnz/perform/date"
)

// serve installs a local API double and points the package at it.
func serve(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	old := baseURL
	baseURL = srv.URL
	t.Cleanup(func() {
		baseURL = old
		srv.Close()
	})
}

func TestFetchDailyCloses(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eod/HDFCBANK.NSE" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[
			{"date":"2024-04-30","open":1500.0,"high":1540.0,"low":1495.0,"close":1520.5,"volume":1234567},
			{"date":"2024-05-01","open":0,"close":0,"volume":0},
			{"date":"2024-05-02","open":1522.0,"close":1531.25,"volume":2345678}
		]`)
	})

	points, err := FetchDailyCloses("demo", "HDFCBANK.NSE", date.New(2024, 4, 1), date.New(2024, 5, 31))
	if err != nil {
		t.Fatalf("FetchDailyCloses() unexpected error = %v", err)
	}
	// The zero close of the holiday line must be skipped.
	if len(points) != 2 {
		t.Fatalf("FetchDailyCloses() returned %d points, want 2", len(points))
	}
	want := perform.PricePoint{ID: "HDFCBANK.NSE", On: date.New(2024, 4, 30), Price: 1520.5}
	if points[0] != want {
		t.Errorf("FetchDailyCloses()[0] = %+v, want %+v", points[0], want)
	}
	if points[1].Price != 1531.25 {
		t.Errorf("FetchDailyCloses()[1].Price = %v, want 1531.25", points[1].Price)
	}
}

func TestFetchDailyClosesRejectsBadID(t *testing.T) {
	if _, err := FetchDailyCloses("demo", "not an id", date.New(2024, 4, 1), date.New(2024, 5, 31)); err == nil {
		t.Error("FetchDailyCloses() expected an error for an invalid id")
	}
}

func TestSearch(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/hdfc bank" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[
			{"Code":"HDFCBANK","Exchange":"NSE","Name":"HDFC Bank Limited","Type":"Common Stock","Country":"India","Currency":"INR","ISIN":"INE040A01034","previousClose":1520.5,"previousCloseDate":"2024-04-30"},
			{"Code":"HDB","Exchange":"US","Name":"HDFC Bank Limited ADR","Type":"Common Stock","Country":"USA","Currency":"USD","ISIN":"US40415F1012","previousClose":57.2,"previousCloseDate":"2024-04-30"}
		]`)
	})

	results, err := Search("demo", "hdfc bank")
	if err != nil {
		t.Fatalf("Search() unexpected error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	id, err := results[0].ID()
	if err != nil {
		t.Fatalf("ID() unexpected error = %v", err)
	}
	if id != perform.ID("HDFCBANK.NSE") {
		t.Errorf("ID() = %q, want %q", id, "HDFCBANK.NSE")
	}
	if results[0].Name != "HDFC Bank Limited" {
		t.Errorf("Search()[0].Name = %q, want %q", results[0].Name, "HDFC Bank Limited")
	}
}
