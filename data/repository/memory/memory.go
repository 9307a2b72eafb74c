package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/amanmoon/my-stocks/data/repository"
	"github.com/amanmoon/my-stocks/internal/model"
	"github.com/shopspring/decimal"
)

// Repository keeps the whole terminal state in memory: watch-stocks,
// both ledger buckets, alerts and watchlist membership. All access is
// serialized by one mutex, so timer callbacks and user commands never
// observe a half-applied mutation. Accessors return copies, never
// interior references.
type Repository struct {
	mu         sync.RWMutex
	stocks     map[string]model.WatchStock
	stockIDs   map[string]string // ticker -> id
	holdings   map[string]model.Holding
	positions  map[string]model.Position
	alerts     map[string]model.Alert
	alertOrder []string
	watchlists map[string]map[string]struct{}
}

func New(stocks []model.WatchStock, watchlists []string) *Repository {
	r := &Repository{
		stocks:     make(map[string]model.WatchStock, len(stocks)),
		stockIDs:   make(map[string]string, len(stocks)),
		holdings:   make(map[string]model.Holding),
		positions:  make(map[string]model.Position),
		alerts:     make(map[string]model.Alert),
		watchlists: make(map[string]map[string]struct{}, len(watchlists)),
	}

	for _, s := range stocks {
		r.stocks[s.ID] = s
		r.stockIDs[s.Ticker] = s.ID
	}

	for _, name := range watchlists {
		r.watchlists[name] = make(map[string]struct{})
	}

	return r
}

func (r *Repository) WatchStocks(ctx context.Context) ([]model.WatchStock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stocks := make([]model.WatchStock, 0, len(r.stocks))
	for _, s := range r.stocks {
		stocks = append(stocks, s)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Ticker < stocks[j].Ticker })
	return stocks, nil
}

func (r *Repository) WatchStockByID(ctx context.Context, id string) (model.WatchStock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stocks[id]
	if !ok {
		return model.WatchStock{}, repository.ErrNotFound
	}
	return s, nil
}

func (r *Repository) WatchStockByTicker(ctx context.Context, ticker string) (model.WatchStock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.stockIDs[ticker]
	if !ok {
		return model.WatchStock{}, repository.ErrNotFound
	}
	return r.stocks[id], nil
}

func (r *Repository) UpdateWatchStockPrice(ctx context.Context, id string, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stocks[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.CurrentPrice = price
	r.stocks[id] = s
	return nil
}

func (r *Repository) Holdings(ctx context.Context) ([]model.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	holdings := make([]model.Holding, 0, len(r.holdings))
	for _, h := range r.holdings {
		holdings = append(holdings, h)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Ticker < holdings[j].Ticker })
	return holdings, nil
}

func (r *Repository) HoldingByID(ctx context.Context, id string) (model.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.holdings[id]
	if !ok {
		return model.Holding{}, repository.ErrNotFound
	}
	return h, nil
}

func (r *Repository) HoldingByTicker(ctx context.Context, ticker string) (model.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.holdings {
		if h.Ticker == ticker {
			return h, nil
		}
	}
	return model.Holding{}, repository.ErrNotFound
}

func (r *Repository) SaveHolding(ctx context.Context, h model.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.holdings[h.ID] = h
	return nil
}

// UpdateHoldingPrice touches only the market price, under the lock,
// and only while the entry still exists. The tick pass uses this so a
// concurrent sell or merge is never overwritten with a stale struct.
func (r *Repository) UpdateHoldingPrice(ctx context.Context, id string, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holdings[id]
	if !ok {
		return repository.ErrNotFound
	}
	h.CurrentPrice = price
	r.holdings[id] = h
	return nil
}

func (r *Repository) DeleteHolding(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holdings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.holdings, id)
	return nil
}

func (r *Repository) Positions(ctx context.Context) ([]model.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	positions := make([]model.Position, 0, len(r.positions))
	for _, p := range r.positions {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Ticker != positions[j].Ticker {
			return positions[i].Ticker < positions[j].Ticker
		}
		return positions[i].Type < positions[j].Type
	})
	return positions, nil
}

func (r *Repository) PositionByID(ctx context.Context, id string) (model.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.positions[id]
	if !ok {
		return model.Position{}, repository.ErrNotFound
	}
	return p, nil
}

// PositionByTickerAndType is the merge lookup: buys only ever merge
// into an entry with the same ticker and the same direction.
func (r *Repository) PositionByTickerAndType(ctx context.Context, ticker string, t model.PositionType) (model.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.positions {
		if p.Ticker == ticker && p.Type == t {
			return p, nil
		}
	}
	return model.Position{}, repository.ErrNotFound
}

func (r *Repository) SavePosition(ctx context.Context, p model.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.positions[p.ID] = p
	return nil
}

// UpdatePositionPrice is the positions counterpart of
// UpdateHoldingPrice.
func (r *Repository) UpdatePositionPrice(ctx context.Context, id string, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.positions[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.CurrentPrice = price
	r.positions[id] = p
	return nil
}

func (r *Repository) DeletePosition(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.positions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.positions, id)
	return nil
}

func (r *Repository) Alerts(ctx context.Context) ([]model.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alerts := make([]model.Alert, 0, len(r.alertOrder))
	for _, id := range r.alertOrder {
		alerts = append(alerts, r.alerts[id])
	}
	return alerts, nil
}

func (r *Repository) InsertAlert(ctx context.Context, a model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alerts[a.ID]; ok {
		return repository.ErrAlreadyExists
	}
	r.alerts[a.ID] = a
	r.alertOrder = append(r.alertOrder, a.ID)
	return nil
}

// MarkAlertTriggered flips the monotonic triggered flag and acts as
// the at-most-once claim: exactly one caller gets a nil error, every
// later call sees ErrAlreadyExists. It never flips back.
func (r *Repository) MarkAlertTriggered(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if a.Triggered {
		return repository.ErrAlreadyExists
	}
	a.Triggered = true
	r.alerts[id] = a
	return nil
}

func (r *Repository) AddWatchlistMember(ctx context.Context, list, stockID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.watchlists[list]
	if !ok {
		members = make(map[string]struct{})
		r.watchlists[list] = members
	}
	members[stockID] = struct{}{}
	return nil
}

func (r *Repository) RemoveWatchlistMember(ctx context.Context, list, stockID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.watchlists[list]; ok {
		delete(members, stockID)
	}
	return nil
}

func (r *Repository) WatchlistMembers(ctx context.Context, list string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.watchlists[list]
	if !ok {
		return nil, nil
	}
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Repository) Watchlists(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.watchlists))
	for name := range r.watchlists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
