package terminalService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amanmoon/my-stocks/data/repository"
	"github.com/amanmoon/my-stocks/internal/model"
	"github.com/amanmoon/my-stocks/internal/service"
	"github.com/amanmoon/my-stocks/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	WatchStocks(ctx context.Context) ([]model.WatchStock, error)
	WatchStockByID(ctx context.Context, id string) (model.WatchStock, error)
	WatchStockByTicker(ctx context.Context, ticker string) (model.WatchStock, error)
	UpdateWatchStockPrice(ctx context.Context, id string, price decimal.Decimal) error

	Holdings(ctx context.Context) ([]model.Holding, error)
	HoldingByID(ctx context.Context, id string) (model.Holding, error)
	HoldingByTicker(ctx context.Context, ticker string) (model.Holding, error)
	SaveHolding(ctx context.Context, h model.Holding) error
	UpdateHoldingPrice(ctx context.Context, id string, price decimal.Decimal) error
	DeleteHolding(ctx context.Context, id string) error

	Positions(ctx context.Context) ([]model.Position, error)
	PositionByID(ctx context.Context, id string) (model.Position, error)
	PositionByTickerAndType(ctx context.Context, ticker string, t model.PositionType) (model.Position, error)
	SavePosition(ctx context.Context, p model.Position) error
	UpdatePositionPrice(ctx context.Context, id string, price decimal.Decimal) error
	DeletePosition(ctx context.Context, id string) error

	Alerts(ctx context.Context) ([]model.Alert, error)
	InsertAlert(ctx context.Context, a model.Alert) error
	MarkAlertTriggered(ctx context.Context, id string) error

	AddWatchlistMember(ctx context.Context, list, stockID string) error
	RemoveWatchlistMember(ctx context.Context, list, stockID string) error
	WatchlistMembers(ctx context.Context, list string) ([]string, error)
	Watchlists(ctx context.Context) ([]string, error)
}

// PriceSource produces the next simulated price for one instrument.
type PriceSource interface {
	Next(price decimal.Decimal) decimal.Decimal
}

// Notifier delivers user-facing notifications. Delivery is best
// effort: the service logs failures and moves on.
type Notifier interface {
	Notify(ctx context.Context, title, body, kind string) error
}

// Haptics is a cosmetic feedback channel. May be nil.
type Haptics interface {
	Vibrate(pattern string)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error)
}

type TerminalService struct {
	repo      Repository
	feed      PriceSource
	notifier  Notifier
	haptics   Haptics
	reportGen ReportGenerator

	mu            sync.Mutex
	tickListeners []func()
}

func New(repo Repository, feed PriceSource, notifier Notifier, haptics Haptics, reportGen ReportGenerator) *TerminalService {
	return &TerminalService{
		repo:      repo,
		feed:      feed,
		notifier:  notifier,
		haptics:   haptics,
		reportGen: reportGen,
	}
}

// OnTick registers a subscriber invoked synchronously after every
// completed price-update pass. The subscriber gets no payload and is
// expected to re-read state.
func (s *TerminalService) OnTick(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickListeners = append(s.tickListeners, fn)
}

// RefreshPrices is the tick pass: every watch-stock, holding and
// position gets a fresh price from the feed, then pending alerts are
// evaluated against the snapshot just produced, then subscribers fire.
func (s *TerminalService) RefreshPrices(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.RefreshPrices"

	slog.Debug("RefreshPrices start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RefreshPrices finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	stocks, err := s.repo.WatchStocks(ctx)
	if err != nil {
		slog.Error("got error from repo.WatchStocks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	for _, stock := range stocks {
		if err := s.repo.UpdateWatchStockPrice(ctx, stock.ID, s.feed.Next(stock.CurrentPrice)); err != nil {
			slog.Error("got error from repo.UpdateWatchStockPrice", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return err
		}
	}

	// Only the price is written back, never the whole entry: the
	// snapshot below may be stale by the time a row is updated, and an
	// entry sold in between must stay gone.
	holdings, err := s.repo.Holdings(ctx)
	if err != nil {
		return err
	}
	for _, h := range holdings {
		err := s.repo.UpdateHoldingPrice(ctx, h.ID, s.feed.Next(h.CurrentPrice))
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	positions, err := s.repo.Positions(ctx)
	if err != nil {
		return err
	}
	for _, p := range positions {
		err := s.repo.UpdatePositionPrice(ctx, p.ID, s.feed.Next(p.CurrentPrice))
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	s.evaluateAlerts(ctx)
	s.fireTickListeners()

	return nil
}

func (s *TerminalService) fireTickListeners() {
	s.mu.Lock()
	listeners := make([]func(), len(s.tickListeners))
	copy(listeners, s.tickListeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Buy opens or grows a long entry in the given bucket at the
// instrument's current price. An existing entry with the same ticker
// (and BUY type, for positions) is merged with a quantity-weighted
// average price; otherwise a fresh entry is minted.
func (s *TerminalService) Buy(ctx context.Context, ticker string, quantity int, bucket model.Bucket) (model.Fill, error) {
	return s.open(ctx, ticker, quantity, bucket, model.PositionBuy)
}

// Short opens or grows a SELL-type intraday position. Shorts never
// merge with BUY entries on the same ticker.
func (s *TerminalService) Short(ctx context.Context, ticker string, quantity int) (model.Fill, error) {
	return s.open(ctx, ticker, quantity, model.BucketPositions, model.PositionSell)
}

func (s *TerminalService) open(ctx context.Context, ticker string, quantity int, bucket model.Bucket, side model.PositionType) (model.Fill, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.open"

	slog.Debug("open start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker), slog.Int("quantity", quantity), slog.String("bucket", bucket.String()))
	defer func() {
		slog.Debug("open finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
	}()

	if quantity <= 0 {
		return model.Fill{}, service.ErrInvalidQuantity
	}

	stock, err := s.repo.WatchStockByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Fill{}, service.ErrNotFound
		}
		slog.Error("got error from repo.WatchStockByTicker", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Fill{}, err
	}

	var fill model.Fill
	switch bucket {
	case model.BucketHoldings:
		fill, err = s.buyHolding(ctx, stock, quantity)
	case model.BucketPositions:
		fill, err = s.openPosition(ctx, stock, quantity, side)
	default:
		return model.Fill{}, service.ErrUnknownBucket
	}
	if err != nil {
		return model.Fill{}, err
	}

	s.notify(ctx, "Order executed",
		fmt.Sprintf("%s %d x %s @ %s", verb(side), fill.Quantity, fill.Ticker, fill.Price.StringFixed(2)),
		"trade")
	s.vibrate("light")

	return fill, nil
}

func verb(side model.PositionType) string {
	if side == model.PositionSell {
		return "Shorted"
	}
	return "Bought"
}

func (s *TerminalService) buyHolding(ctx context.Context, stock model.WatchStock, quantity int) (model.Fill, error) {
	h, err := s.repo.HoldingByTicker(ctx, stock.Ticker)
	switch {
	case err == nil:
		h.AvgBuyPrice = weightedAverage(h.AvgBuyPrice, h.Quantity, stock.CurrentPrice, quantity)
		h.Quantity += quantity
		h.CurrentPrice = stock.CurrentPrice
	case errors.Is(err, repository.ErrNotFound):
		h = model.Holding{
			ID:           uuid.NewString(),
			Ticker:       stock.Ticker,
			Shortname:    stock.Shortname,
			Exchange:     stock.Exchange,
			Quantity:     quantity,
			AvgBuyPrice:  stock.CurrentPrice,
			CurrentPrice: stock.CurrentPrice,
		}
	default:
		return model.Fill{}, err
	}

	if err := s.repo.SaveHolding(ctx, h); err != nil {
		return model.Fill{}, err
	}

	return model.Fill{
		EntryID:   h.ID,
		Ticker:    h.Ticker,
		Shortname: h.Shortname,
		Bucket:    model.BucketHoldings,
		Side:      model.PositionBuy,
		Quantity:  quantity,
		Price:     stock.CurrentPrice,
		Remaining: h.Quantity,
	}, nil
}

func (s *TerminalService) openPosition(ctx context.Context, stock model.WatchStock, quantity int, side model.PositionType) (model.Fill, error) {
	p, err := s.repo.PositionByTickerAndType(ctx, stock.Ticker, side)
	switch {
	case err == nil:
		p.EntryPrice = weightedAverage(p.EntryPrice, p.Quantity, stock.CurrentPrice, quantity)
		p.Quantity += quantity
		p.CurrentPrice = stock.CurrentPrice
	case errors.Is(err, repository.ErrNotFound):
		p = model.Position{
			ID:           uuid.NewString(),
			Ticker:       stock.Ticker,
			Shortname:    stock.Shortname,
			Exchange:     stock.Exchange,
			Type:         side,
			Quantity:     quantity,
			EntryPrice:   stock.CurrentPrice,
			CurrentPrice: stock.CurrentPrice,
		}
	default:
		return model.Fill{}, err
	}

	if err := s.repo.SavePosition(ctx, p); err != nil {
		return model.Fill{}, err
	}

	return model.Fill{
		EntryID:   p.ID,
		Ticker:    p.Ticker,
		Shortname: p.Shortname,
		Bucket:    model.BucketPositions,
		Side:      side,
		Quantity:  quantity,
		Price:     stock.CurrentPrice,
		Remaining: p.Quantity,
	}, nil
}

func weightedAverage(oldAvg decimal.Decimal, oldQty int, price decimal.Decimal, qty int) decimal.Decimal {
	oldQ := decimal.NewFromInt(int64(oldQty))
	newQ := decimal.NewFromInt(int64(qty))
	return oldAvg.Mul(oldQ).Add(price.Mul(newQ)).Div(oldQ.Add(newQ))
}

// Sell reduces the entry by quantity at the current market price. A
// sell of the full quantity removes the entry; a later buy on the same
// ticker mints a fresh entry with a new id. Oversells and unknown
// entries leave the ledger untouched and return an error.
func (s *TerminalService) Sell(ctx context.Context, entryID string, quantity int, bucket model.Bucket) (model.Fill, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.Sell"

	slog.Debug("Sell start", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", entryID), slog.Int("quantity", quantity), slog.String("bucket", bucket.String()))
	defer func() {
		slog.Debug("Sell finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", entryID))
	}()

	if quantity <= 0 {
		return model.Fill{}, service.ErrInvalidQuantity
	}

	var fill model.Fill
	var err error
	switch bucket {
	case model.BucketHoldings:
		fill, err = s.sellHolding(ctx, entryID, quantity)
	case model.BucketPositions:
		fill, err = s.sellPosition(ctx, entryID, quantity)
	default:
		return model.Fill{}, service.ErrUnknownBucket
	}
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInsufficientQuantity) {
			slog.Warn("sell rejected", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return model.Fill{}, err
	}

	s.notify(ctx, "Order executed",
		fmt.Sprintf("Sold %d x %s @ %s", fill.Quantity, fill.Ticker, fill.Price.StringFixed(2)),
		"trade")
	s.vibrate("light")

	return fill, nil
}

func (s *TerminalService) sellHolding(ctx context.Context, entryID string, quantity int) (model.Fill, error) {
	h, err := s.repo.HoldingByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Fill{}, service.ErrNotFound
		}
		return model.Fill{}, err
	}

	if quantity > h.Quantity {
		return model.Fill{}, service.ErrInsufficientQuantity
	}

	h.Quantity -= quantity
	if h.Quantity == 0 {
		if err := s.repo.DeleteHolding(ctx, h.ID); err != nil {
			return model.Fill{}, err
		}
	} else {
		if err := s.repo.SaveHolding(ctx, h); err != nil {
			return model.Fill{}, err
		}
	}

	return model.Fill{
		EntryID:   h.ID,
		Ticker:    h.Ticker,
		Shortname: h.Shortname,
		Bucket:    model.BucketHoldings,
		Side:      model.PositionBuy,
		Quantity:  quantity,
		Price:     h.CurrentPrice,
		Remaining: h.Quantity,
	}, nil
}

func (s *TerminalService) sellPosition(ctx context.Context, entryID string, quantity int) (model.Fill, error) {
	p, err := s.repo.PositionByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Fill{}, service.ErrNotFound
		}
		return model.Fill{}, err
	}

	if quantity > p.Quantity {
		return model.Fill{}, service.ErrInsufficientQuantity
	}

	p.Quantity -= quantity
	if p.Quantity == 0 {
		if err := s.repo.DeletePosition(ctx, p.ID); err != nil {
			return model.Fill{}, err
		}
	} else {
		if err := s.repo.SavePosition(ctx, p); err != nil {
			return model.Fill{}, err
		}
	}

	return model.Fill{
		EntryID:   p.ID,
		Ticker:    p.Ticker,
		Shortname: p.Shortname,
		Bucket:    model.BucketPositions,
		Side:      p.Type,
		Quantity:  quantity,
		Price:     p.CurrentPrice,
		Remaining: p.Quantity,
	}, nil
}

func (s *TerminalService) WatchStocks(ctx context.Context) ([]model.WatchStock, error) {
	return s.repo.WatchStocks(ctx)
}

func (s *TerminalService) Holdings(ctx context.Context) ([]model.Holding, error) {
	return s.repo.Holdings(ctx)
}

func (s *TerminalService) Positions(ctx context.Context) ([]model.Position, error) {
	return s.repo.Positions(ctx)
}

// PortfolioSummary totals one bucket. Invested is quantity times cost
// basis, current is quantity times market price, profit is
// sign-adjusted per position type. ProfitPercent is zero when nothing
// is invested.
func (s *TerminalService) PortfolioSummary(ctx context.Context, bucket model.Bucket) (model.PortfolioSummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.PortfolioSummary"

	summary := model.PortfolioSummary{Bucket: bucket}

	switch bucket {
	case model.BucketHoldings:
		holdings, err := s.repo.Holdings(ctx)
		if err != nil {
			slog.Error("got error from repo.Holdings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.PortfolioSummary{}, err
		}
		for _, h := range holdings {
			qty := decimal.NewFromInt(int64(h.Quantity))
			summary.Invested = summary.Invested.Add(h.AvgBuyPrice.Mul(qty))
			summary.Current = summary.Current.Add(h.CurrentPrice.Mul(qty))
		}
		summary.Profit = summary.Current.Sub(summary.Invested)
		summary.EntriesCount = len(holdings)
	case model.BucketPositions:
		positions, err := s.repo.Positions(ctx)
		if err != nil {
			slog.Error("got error from repo.Positions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.PortfolioSummary{}, err
		}
		for _, p := range positions {
			qty := decimal.NewFromInt(int64(p.Quantity))
			summary.Invested = summary.Invested.Add(p.EntryPrice.Mul(qty))
			summary.Current = summary.Current.Add(p.CurrentPrice.Mul(qty))
			summary.Profit = summary.Profit.Add(p.Profit())
		}
		summary.EntriesCount = len(positions)
	default:
		return model.PortfolioSummary{}, service.ErrUnknownBucket
	}

	if !summary.Invested.IsZero() {
		summary.ProfitPercent = summary.Profit.Div(summary.Invested).Mul(decimal.NewFromInt(100))
	}

	return summary, nil
}

// SetAlert creates a one-shot threshold watch on a quotable
// instrument. Direction is derived once, here: up when the target is
// strictly above the current price, down otherwise. The new alert is
// evaluated immediately, so a target already crossed fires right away.
func (s *TerminalService) SetAlert(ctx context.Context, ticker string, targetPrice decimal.Decimal) (model.Alert, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.SetAlert"

	slog.Debug("SetAlert start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
	defer func() {
		slog.Debug("SetAlert finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
	}()

	stock, err := s.repo.WatchStockByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Alert{}, service.ErrNotFound
		}
		slog.Error("got error from repo.WatchStockByTicker", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Alert{}, err
	}

	direction := model.AlertDown
	if targetPrice.GreaterThan(stock.CurrentPrice) {
		direction = model.AlertUp
	}

	alert := model.Alert{
		ID:          uuid.NewString(),
		StockID:     stock.ID,
		Ticker:      stock.Ticker,
		Shortname:   stock.Shortname,
		TargetPrice: targetPrice,
		Direction:   direction,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.InsertAlert(ctx, alert); err != nil {
		slog.Error("got error from repo.InsertAlert", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Alert{}, err
	}

	s.vibrate("light")
	s.evaluateAlerts(ctx)

	return alert, nil
}

func (s *TerminalService) Alerts(ctx context.Context) ([]model.Alert, error) {
	return s.repo.Alerts(ctx)
}

// evaluateAlerts runs over every pending alert against the latest
// snapshot. Triggering is monotonic: a fired alert is marked and never
// re-notified. Alerts on instruments missing from every price source
// stay pending.
func (s *TerminalService) evaluateAlerts(ctx context.Context) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.evaluateAlerts"

	alerts, err := s.repo.Alerts(ctx)
	if err != nil {
		slog.Error("got error from repo.Alerts", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	for _, alert := range alerts {
		if alert.Triggered {
			continue
		}

		quote, ok := s.quoteFor(ctx, alert.StockID)
		if !ok {
			continue
		}

		crossed := (alert.Direction == model.AlertUp && quote.Price.GreaterThanOrEqual(alert.TargetPrice)) ||
			(alert.Direction == model.AlertDown && quote.Price.LessThanOrEqual(alert.TargetPrice))
		if !crossed {
			continue
		}

		// The repo flip is the claim: when the tick pass and SetAlert
		// evaluate the same alert concurrently, only the caller that
		// flipped the flag sends the notification.
		if err := s.repo.MarkAlertTriggered(ctx, alert.ID); err != nil {
			if !errors.Is(err, repository.ErrAlreadyExists) {
				slog.Error("got error from repo.MarkAlertTriggered", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			}
			continue
		}

		s.notify(ctx, "Price alert",
			fmt.Sprintf("%s crossed %s %s (now %s)", alert.Ticker, alert.Direction.String(), alert.TargetPrice.StringFixed(2), quote.Price.StringFixed(2)),
			"alert")
	}
}

// quoteFor resolves an instrument id to its latest price, checking
// watch-stocks first, then holdings, then positions.
func (s *TerminalService) quoteFor(ctx context.Context, id string) (model.Quote, bool) {
	if stock, err := s.repo.WatchStockByID(ctx, id); err == nil {
		return model.Quote{Kind: model.KindWatchStock, ID: stock.ID, Ticker: stock.Ticker, Price: stock.CurrentPrice}, true
	}
	if h, err := s.repo.HoldingByID(ctx, id); err == nil {
		return model.Quote{Kind: model.KindHolding, ID: h.ID, Ticker: h.Ticker, Price: h.CurrentPrice}, true
	}
	if p, err := s.repo.PositionByID(ctx, id); err == nil {
		return model.Quote{Kind: model.KindPosition, ID: p.ID, Ticker: p.Ticker, Price: p.CurrentPrice}, true
	}
	return model.Quote{}, false
}

// AddToWatchlist resolves the ticker and records membership. Adding an
// already-present instrument is a no-op.
func (s *TerminalService) AddToWatchlist(ctx context.Context, list, ticker string) error {
	stock, err := s.repo.WatchStockByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		return err
	}
	s.vibrate("light")
	return s.repo.AddWatchlistMember(ctx, list, stock.ID)
}

// RemoveFromWatchlist is idempotent: removing an absent member is a
// no-op.
func (s *TerminalService) RemoveFromWatchlist(ctx context.Context, list, ticker string) error {
	stock, err := s.repo.WatchStockByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		return err
	}
	s.vibrate("light")
	return s.repo.RemoveWatchlistMember(ctx, list, stock.ID)
}

func (s *TerminalService) WatchlistMembers(ctx context.Context, list string) ([]model.WatchStock, error) {
	ids, err := s.repo.WatchlistMembers(ctx, list)
	if err != nil {
		return nil, err
	}

	stocks := make([]model.WatchStock, 0, len(ids))
	for _, id := range ids {
		stock, err := s.repo.WatchStockByID(ctx, id)
		if err != nil {
			continue
		}
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

func (s *TerminalService) Watchlists(ctx context.Context) ([]string, error) {
	return s.repo.Watchlists(ctx)
}

// GenerateReport renders the current snapshot as a spreadsheet and
// returns it as bytes. Nothing is written to disk.
func (s *TerminalService) GenerateReport(ctx context.Context) ([]byte, string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TerminalService.GenerateReport"

	slog.Debug("GenerateReport start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GenerateReport finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	stocks, err := s.repo.WatchStocks(ctx)
	if err != nil {
		return nil, "", err
	}
	holdings, err := s.repo.Holdings(ctx)
	if err != nil {
		return nil, "", err
	}
	positions, err := s.repo.Positions(ctx)
	if err != nil {
		return nil, "", err
	}
	holdingsSummary, err := s.PortfolioSummary(ctx, model.BucketHoldings)
	if err != nil {
		return nil, "", err
	}
	positionsSummary, err := s.PortfolioSummary(ctx, model.BucketPositions)
	if err != nil {
		return nil, "", err
	}

	report := model.PortfolioReport{
		Stocks:           stocks,
		Holdings:         holdings,
		Positions:        positions,
		HoldingsSummary:  holdingsSummary,
		PositionsSummary: positionsSummary,
	}

	fileBytes, ext, err := s.reportGen.Generate(ctx, report)
	if err != nil {
		slog.Error("got error from reportGen.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	return fileBytes, ext, nil
}

func (s *TerminalService) notify(ctx context.Context, title, body, kind string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, title, body, kind); err != nil {
		rqID := utils.GetRequestIDFromCtx(ctx)
		slog.Warn("notification delivery failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
}

func (s *TerminalService) vibrate(pattern string) {
	if s.haptics == nil {
		return
	}
	s.haptics.Vibrate(pattern)
}
