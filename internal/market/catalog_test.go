package market

import "testing"

func TestCatalogIsWellFormed(t *testing.T) {
	stocks := Catalog()
	if len(stocks) == 0 {
		t.Fatal("empty catalog")
	}

	seenTickers := make(map[string]bool)
	seenIDs := make(map[string]bool)
	for _, s := range stocks {
		if seenTickers[s.Ticker] {
			t.Fatalf("duplicate ticker %s", s.Ticker)
		}
		if seenIDs[s.ID] {
			t.Fatalf("duplicate id %s", s.ID)
		}
		seenTickers[s.Ticker] = true
		seenIDs[s.ID] = true

		if !s.CurrentPrice.IsPositive() {
			t.Fatalf("%s seeded with non-positive price %s", s.Ticker, s.CurrentPrice)
		}
		if !s.CurrentPrice.Equal(s.PreviousDayPrice) {
			t.Fatalf("%s seeded with diverging previous close", s.Ticker)
		}
	}
}

func TestDefaultWatchlists(t *testing.T) {
	if len(DefaultWatchlists()) == 0 {
		t.Fatal("no default watchlists")
	}
}
