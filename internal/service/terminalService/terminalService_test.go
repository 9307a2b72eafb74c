package terminalService

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/amanmoon/my-stocks/data/repository/memory"
	"github.com/amanmoon/my-stocks/internal/model"
	"github.com/amanmoon/my-stocks/internal/service"
	"github.com/shopspring/decimal"
)

// fakeFeed passes prices through unchanged unless pinned to a fixed
// value, which lets tests drive the ticker to an exact price.
type fakeFeed struct {
	pinned bool
	price  decimal.Decimal
}

func (f *fakeFeed) Next(price decimal.Decimal) decimal.Decimal {
	if f.pinned {
		return f.price
	}
	return price
}

func (f *fakeFeed) pin(price string) {
	f.pinned = true
	f.price = decimal.RequireFromString(price)
}

type fakeNotifier struct {
	kinds []string
}

func (n *fakeNotifier) Notify(ctx context.Context, title, body, kind string) error {
	n.kinds = append(n.kinds, kind)
	return nil
}

func (n *fakeNotifier) count(kind string) int {
	c := 0
	for _, k := range n.kinds {
		if k == kind {
			c++
		}
	}
	return c
}

var _ PriceSource = (*fakeFeed)(nil)
var _ Notifier = (*fakeNotifier)(nil)

// newTestService seeds three watch-stocks; tests driving the feed call
// by call can rely on the first three draws of a tick pass being the
// watch-stocks.
func newTestService(feed PriceSource, notifier *fakeNotifier) (*TerminalService, *memory.Repository) {
	stocks := []model.WatchStock{
		{ID: "s1", Ticker: "RELIANCE", Shortname: "Reliance Industries", Exchange: "NSE", CurrentPrice: decimal.NewFromInt(2800), PreviousDayPrice: decimal.NewFromInt(2800)},
		{ID: "s2", Ticker: "TCS", Shortname: "Tata Consultancy Services", Exchange: "NSE", CurrentPrice: decimal.NewFromInt(1470), PreviousDayPrice: decimal.NewFromInt(1470)},
		{ID: "s3", Ticker: "INFY", Shortname: "Infosys", Exchange: "NSE", CurrentPrice: decimal.NewFromInt(175), PreviousDayPrice: decimal.NewFromInt(175)},
	}
	repo := memory.New(stocks, []string{"Favourites"})
	return New(repo, feed, notifier, nil, nil), repo
}

func TestBuyWeightedAverage(t *testing.T) {
	svc, repo := newTestService(&fakeFeed{}, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "RELIANCE", 10, model.BucketHoldings); err != nil {
		t.Fatalf("first buy error: %v", err)
	}

	_ = repo.UpdateWatchStockPrice(ctx, "s1", decimal.NewFromInt(2900))
	if _, err := svc.Buy(ctx, "RELIANCE", 5, model.BucketHoldings); err != nil {
		t.Fatalf("second buy error: %v", err)
	}

	holdings, _ := svc.Holdings(ctx)
	if len(holdings) != 1 {
		t.Fatalf("holdings = %d, want merged into one", len(holdings))
	}
	h := holdings[0]
	if h.Quantity != 15 {
		t.Fatalf("quantity = %d, want 15", h.Quantity)
	}

	// (10*2800 + 5*2900) / 15
	want := decimal.RequireFromString("2833.33")
	if h.AvgBuyPrice.Sub(want).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Fatalf("avg = %s, want ~%s", h.AvgBuyPrice, want)
	}
}

func TestBuyInvalidQuantity(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "RELIANCE", 0, model.BucketHoldings); !errors.Is(err, service.ErrInvalidQuantity) {
		t.Fatalf("got %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.Buy(ctx, "RELIANCE", -3, model.BucketHoldings); !errors.Is(err, service.ErrInvalidQuantity) {
		t.Fatalf("got %v, want ErrInvalidQuantity", err)
	}
}

func TestBuyUnknownTicker(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})

	if _, err := svc.Buy(context.Background(), "NOPE", 1, model.BucketHoldings); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestSellLifecycle(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})
	ctx := context.Background()

	fill, err := svc.Buy(ctx, "RELIANCE", 10, model.BucketHoldings)
	if err != nil {
		t.Fatalf("buy error: %v", err)
	}
	firstID := fill.EntryID

	// partial sell keeps the entry and its cost basis
	sellFill, err := svc.Sell(ctx, firstID, 4, model.BucketHoldings)
	if err != nil {
		t.Fatalf("partial sell error: %v", err)
	}
	if sellFill.Remaining != 6 {
		t.Fatalf("remaining = %d, want 6", sellFill.Remaining)
	}
	holdings, _ := svc.Holdings(ctx)
	if !holdings[0].AvgBuyPrice.Equal(decimal.NewFromInt(2800)) {
		t.Fatalf("avg changed on sell: %s", holdings[0].AvgBuyPrice)
	}

	// full sell removes the entry, it is not kept at zero quantity
	if _, err := svc.Sell(ctx, firstID, 6, model.BucketHoldings); err != nil {
		t.Fatalf("full sell error: %v", err)
	}
	holdings, _ = svc.Holdings(ctx)
	if len(holdings) != 0 {
		t.Fatalf("holdings = %+v, want empty", holdings)
	}

	// no resurrection: a later buy mints a fresh id
	fill, err = svc.Buy(ctx, "RELIANCE", 3, model.BucketHoldings)
	if err != nil {
		t.Fatalf("rebuy error: %v", err)
	}
	if fill.EntryID == firstID {
		t.Fatalf("rebuy reused id %s", firstID)
	}
}

func TestOversellLeavesLedgerUntouched(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})
	ctx := context.Background()

	fill, _ := svc.Buy(ctx, "RELIANCE", 10, model.BucketHoldings)
	before, _ := svc.Holdings(ctx)

	if _, err := svc.Sell(ctx, fill.EntryID, 11, model.BucketHoldings); !errors.Is(err, service.ErrInsufficientQuantity) {
		t.Fatalf("got %v, want ErrInsufficientQuantity", err)
	}

	after, _ := svc.Holdings(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("ledger changed on rejected sell:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestSellUnknownEntry(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})
	ctx := context.Background()

	_, _ = svc.Buy(ctx, "RELIANCE", 10, model.BucketHoldings)
	before, _ := svc.Holdings(ctx)

	if _, err := svc.Sell(ctx, "no-such-entry", 1, model.BucketHoldings); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	after, _ := svc.Holdings(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("ledger changed on unknown entry sell")
	}
}

func TestPositionsMergeOnlySameType(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "TCS", 10, model.BucketPositions); err != nil {
		t.Fatalf("long error: %v", err)
	}
	if _, err := svc.Short(ctx, "TCS", 5); err != nil {
		t.Fatalf("short error: %v", err)
	}

	positions, _ := svc.Positions(ctx)
	if len(positions) != 2 {
		t.Fatalf("positions = %d, want independent BUY and SELL lines", len(positions))
	}

	// growing the long side must not touch the short side
	if _, err := svc.Buy(ctx, "TCS", 5, model.BucketPositions); err != nil {
		t.Fatalf("second long error: %v", err)
	}
	positions, _ = svc.Positions(ctx)
	for _, p := range positions {
		switch p.Type {
		case model.PositionBuy:
			if p.Quantity != 15 {
				t.Fatalf("long quantity = %d, want 15", p.Quantity)
			}
		case model.PositionSell:
			if p.Quantity != 5 {
				t.Fatalf("short quantity = %d, want 5", p.Quantity)
			}
		}
	}
}

func TestShortPositionProfitOnPriceDrop(t *testing.T) {
	feed := &fakeFeed{}
	svc, _ := newTestService(feed, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.Short(ctx, "TCS", 15); err != nil {
		t.Fatalf("short error: %v", err)
	}

	feed.pin("1450.75")
	if err := svc.RefreshPrices(ctx); err != nil {
		t.Fatalf("RefreshPrices error: %v", err)
	}

	summary, err := svc.PortfolioSummary(ctx, model.BucketPositions)
	if err != nil {
		t.Fatalf("PortfolioSummary error: %v", err)
	}

	// (1470 - 1450.75) * 15
	want := decimal.RequireFromString("288.75")
	if !summary.Profit.Equal(want) {
		t.Fatalf("profit = %s, want %s", summary.Profit, want)
	}
	if !summary.Profit.IsPositive() {
		t.Fatalf("short must gain on a price drop")
	}
}

// mutatingFeed runs a callback on the nth price draw, which lets a
// test change the ledger in the middle of a tick pass, after the pass
// has taken its snapshot.
type mutatingFeed struct {
	calls int
	at    int
	fn    func()
}

func (f *mutatingFeed) Next(price decimal.Decimal) decimal.Decimal {
	f.calls++
	if f.fn != nil && f.calls == f.at {
		f.fn()
	}
	return price
}

func TestTickDoesNotRestoreHoldingSoldMidPass(t *testing.T) {
	// draw 4 is the single holding, right after the three watch-stocks
	feed := &mutatingFeed{at: 4}
	svc, _ := newTestService(feed, &fakeNotifier{})
	ctx := context.Background()

	fill, err := svc.Buy(ctx, "RELIANCE", 10, model.BucketHoldings)
	if err != nil {
		t.Fatalf("buy error: %v", err)
	}

	feed.fn = func() {
		if _, err := svc.Sell(ctx, fill.EntryID, 10, model.BucketHoldings); err != nil {
			t.Fatalf("mid-pass sell error: %v", err)
		}
	}

	if err := svc.RefreshPrices(ctx); err != nil {
		t.Fatalf("RefreshPrices error: %v", err)
	}

	holdings, _ := svc.Holdings(ctx)
	if len(holdings) != 0 {
		t.Fatalf("fully sold holding reappeared after the tick: %+v", holdings)
	}
}

func TestTickDoesNotRestorePositionClosedMidPass(t *testing.T) {
	feed := &mutatingFeed{at: 4}
	svc, _ := newTestService(feed, &fakeNotifier{})
	ctx := context.Background()

	fill, err := svc.Short(ctx, "TCS", 15)
	if err != nil {
		t.Fatalf("short error: %v", err)
	}

	feed.fn = func() {
		if _, err := svc.Sell(ctx, fill.EntryID, 15, model.BucketPositions); err != nil {
			t.Fatalf("mid-pass close error: %v", err)
		}
	}

	if err := svc.RefreshPrices(ctx); err != nil {
		t.Fatalf("RefreshPrices error: %v", err)
	}

	positions, _ := svc.Positions(ctx)
	if len(positions) != 0 {
		t.Fatalf("closed position reappeared after the tick: %+v", positions)
	}
}

func TestTickKeepsQuantityReducedMidPass(t *testing.T) {
	feed := &mutatingFeed{at: 4}
	svc, _ := newTestService(feed, &fakeNotifier{})
	ctx := context.Background()

	fill, err := svc.Buy(ctx, "RELIANCE", 10, model.BucketHoldings)
	if err != nil {
		t.Fatalf("buy error: %v", err)
	}

	feed.fn = func() {
		if _, err := svc.Sell(ctx, fill.EntryID, 4, model.BucketHoldings); err != nil {
			t.Fatalf("mid-pass sell error: %v", err)
		}
	}

	if err := svc.RefreshPrices(ctx); err != nil {
		t.Fatalf("RefreshPrices error: %v", err)
	}

	holdings, _ := svc.Holdings(ctx)
	if len(holdings) != 1 || holdings[0].Quantity != 6 {
		t.Fatalf("holdings after tick = %+v, want quantity 6", holdings)
	}
}

func TestSummaryEmptyBucket(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})

	summary, err := svc.PortfolioSummary(context.Background(), model.BucketHoldings)
	if err != nil {
		t.Fatalf("PortfolioSummary error: %v", err)
	}
	if !summary.Invested.IsZero() || !summary.ProfitPercent.IsZero() {
		t.Fatalf("empty bucket summary = %+v, want zeros", summary)
	}
}

func TestAlertTriggersExactlyOnce(t *testing.T) {
	feed := &fakeFeed{}
	notifier := &fakeNotifier{}
	svc, _ := newTestService(feed, notifier)
	ctx := context.Background()

	alert, err := svc.SetAlert(ctx, "INFY", decimal.NewFromInt(180))
	if err != nil {
		t.Fatalf("SetAlert error: %v", err)
	}
	if alert.Direction != model.AlertUp {
		t.Fatalf("direction = %s, want up (target above current)", alert.Direction)
	}
	if notifier.count("alert") != 0 {
		t.Fatalf("alert fired below target")
	}

	// several ticks below the target: still pending
	feed.pin("179")
	_ = svc.RefreshPrices(ctx)
	_ = svc.RefreshPrices(ctx)
	if notifier.count("alert") != 0 {
		t.Fatalf("alert fired at 179 < 180")
	}

	feed.pin("181")
	_ = svc.RefreshPrices(ctx)
	if notifier.count("alert") != 1 {
		t.Fatalf("notify count = %d, want 1", notifier.count("alert"))
	}

	alerts, _ := svc.Alerts(ctx)
	if !alerts[0].Triggered {
		t.Fatalf("alert not marked triggered")
	}

	// dropping back below the target never re-arms or re-notifies
	feed.pin("170")
	_ = svc.RefreshPrices(ctx)
	_ = svc.RefreshPrices(ctx)
	if notifier.count("alert") != 1 {
		t.Fatalf("notify count = %d after drop, want still 1", notifier.count("alert"))
	}
	alerts, _ = svc.Alerts(ctx)
	if !alerts[0].Triggered {
		t.Fatalf("triggered flag reverted")
	}
}

func TestAlertDownTriggersOnCreation(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, _ := newTestService(&fakeFeed{}, notifier)
	ctx := context.Background()

	// target equal to current resolves to down and is already crossed
	alert, err := svc.SetAlert(ctx, "INFY", decimal.NewFromInt(175))
	if err != nil {
		t.Fatalf("SetAlert error: %v", err)
	}
	if alert.Direction != model.AlertDown {
		t.Fatalf("direction = %s, want down", alert.Direction)
	}
	if notifier.count("alert") != 1 {
		t.Fatalf("notify count = %d, want immediate trigger", notifier.count("alert"))
	}
}

func TestAlertUnknownInstrumentStaysPending(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, repo := newTestService(&fakeFeed{}, notifier)
	ctx := context.Background()

	orphan := model.Alert{ID: "a1", StockID: "ghost", Ticker: "GHOST", TargetPrice: decimal.NewFromInt(10), Direction: model.AlertDown}
	if err := repo.InsertAlert(ctx, orphan); err != nil {
		t.Fatalf("InsertAlert error: %v", err)
	}

	_ = svc.RefreshPrices(ctx)

	alerts, _ := svc.Alerts(ctx)
	if alerts[0].Triggered {
		t.Fatalf("orphan alert triggered")
	}
	if notifier.count("alert") != 0 {
		t.Fatalf("orphan alert notified")
	}
}

func TestSetAlertUnknownTicker(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})

	if _, err := svc.SetAlert(context.Background(), "NOPE", decimal.NewFromInt(1)); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestWatchlistAddIsIdempotent(t *testing.T) {
	svc, _ := newTestService(&fakeFeed{}, &fakeNotifier{})
	ctx := context.Background()

	if err := svc.AddToWatchlist(ctx, "Favourites", "RELIANCE"); err != nil {
		t.Fatalf("AddToWatchlist error: %v", err)
	}
	if err := svc.AddToWatchlist(ctx, "Favourites", "RELIANCE"); err != nil {
		t.Fatalf("second AddToWatchlist error: %v", err)
	}

	members, _ := svc.WatchlistMembers(ctx, "Favourites")
	if len(members) != 1 {
		t.Fatalf("members = %d, want 1", len(members))
	}

	if err := svc.RemoveFromWatchlist(ctx, "Favourites", "TCS"); err != nil {
		t.Fatalf("removing absent member: %v", err)
	}
	if err := svc.AddToWatchlist(ctx, "Favourites", "NOPE"); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound for unknown ticker", err)
	}
}

func TestTradeNotificationsAndTickSubscribers(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, _ := newTestService(&fakeFeed{}, notifier)
	ctx := context.Background()

	ticks := 0
	svc.OnTick(func() { ticks++ })

	_, _ = svc.Buy(ctx, "RELIANCE", 1, model.BucketHoldings)
	if notifier.count("trade") != 1 {
		t.Fatalf("trade notifications = %d, want 1", notifier.count("trade"))
	}

	_ = svc.RefreshPrices(ctx)
	_ = svc.RefreshPrices(ctx)
	if ticks != 2 {
		t.Fatalf("tick subscriber ran %d times, want 2", ticks)
	}
}
