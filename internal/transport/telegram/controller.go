package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/amanmoon/my-stocks/data/session"
	"github.com/amanmoon/my-stocks/internal/converter/telebotConverter"
	"github.com/amanmoon/my-stocks/internal/model"
	"github.com/amanmoon/my-stocks/internal/service"
	"github.com/amanmoon/my-stocks/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const internalErrMsg = "something went wrong..."

const helpMsg = `Simulated trading terminal.

/quotes - market quotes
/portfolio - holdings
/positions - intraday positions
/buy TICKER QTY [pos] - buy into holdings (or positions)
/short TICKER QTY - open a short position
/sell TICKER QTY [pos|long|short] - sell from holdings, or close a position (long/short picks the line)
/alert TICKER PRICE - one-shot price alert
/alerts - list alerts
/watchlists - list watchlists
/watchlist NAME - show members
/watch NAME TICKER - add to a watchlist
/unwatch NAME TICKER - remove from a watchlist
/report - portfolio snapshot as xlsx`

type TerminalService interface {
	WatchStocks(ctx context.Context) ([]model.WatchStock, error)
	Holdings(ctx context.Context) ([]model.Holding, error)
	Positions(ctx context.Context) ([]model.Position, error)
	PortfolioSummary(ctx context.Context, bucket model.Bucket) (model.PortfolioSummary, error)
	Buy(ctx context.Context, ticker string, quantity int, bucket model.Bucket) (model.Fill, error)
	Short(ctx context.Context, ticker string, quantity int) (model.Fill, error)
	Sell(ctx context.Context, entryID string, quantity int, bucket model.Bucket) (model.Fill, error)
	SetAlert(ctx context.Context, ticker string, targetPrice decimal.Decimal) (model.Alert, error)
	Alerts(ctx context.Context) ([]model.Alert, error)
	AddToWatchlist(ctx context.Context, list, ticker string) error
	RemoveFromWatchlist(ctx context.Context, list, ticker string) error
	WatchlistMembers(ctx context.Context, list string) ([]model.WatchStock, error)
	Watchlists(ctx context.Context) ([]string, error)
	GenerateReport(ctx context.Context) ([]byte, string, error)
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

type Controller struct {
	terminal TerminalService
	session  Session
}

func NewController(terminal TerminalService, session Session) *Controller {
	return &Controller{
		terminal: terminal,
		session:  session,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Send(helpMsg)
}

func (ctrl *Controller) Quotes(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	stocks, err := ctrl.terminal.WatchStocks(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.WatchStocksResponse(stocks))
}

func (ctrl *Controller) Portfolio(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	summary, err := ctrl.terminal.PortfolioSummary(ctx, model.BucketHoldings)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	holdings, err := ctrl.terminal.Holdings(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.HoldingsResponse(summary, holdings))
}

func (ctrl *Controller) Positions(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	summary, err := ctrl.terminal.PortfolioSummary(ctx, model.BucketPositions)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	positions, err := ctrl.terminal.Positions(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.PositionsResponse(summary, positions))
}

func (ctrl *Controller) Alerts(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	alerts, err := ctrl.terminal.Alerts(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.AlertsResponse(alerts))
}

func (ctrl *Controller) Watchlists(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	lists, err := ctrl.terminal.Watchlists(ctx)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send("Watchlists:\n" + strings.Join(lists, "\n"))
}

func (ctrl *Controller) Watchlist(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	list := strings.TrimSpace(c.Message().Payload)
	if list == "" {
		return c.Send("usage: /watchlist NAME")
	}

	stocks, err := ctrl.terminal.WatchlistMembers(ctx, list)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	return c.Send(telebotConverter.WatchlistResponse(list, stocks))
}

func (ctrl *Controller) Watch(c tele.Context) error {
	return ctrl.watchlistChange(c, ctrl.terminal.AddToWatchlist, "added")
}

func (ctrl *Controller) Unwatch(c tele.Context) error {
	return ctrl.watchlistChange(c, ctrl.terminal.RemoveFromWatchlist, "removed")
}

func (ctrl *Controller) watchlistChange(c tele.Context, op func(ctx context.Context, list, ticker string) error, done string) error {
	ctx := utils.CreateCtxWithRqID(c)

	args := c.Args()
	if len(args) != 2 {
		return c.Send("usage: /watch NAME TICKER")
	}

	list, ticker := args[0], strings.ToUpper(args[1])
	if err := op(ctx, list, ticker); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send("unknown ticker " + ticker)
		}
		return c.Send(internalErrMsg)
	}
	return c.Send(ticker + " " + done)
}

func (ctrl *Controller) InitBuy(c tele.Context) error {
	return ctrl.initOrder(c, model.ExpectingBuyOrder, ctrl.ProcessBuy, "Enter order: TICKER QTY [pos]")
}

func (ctrl *Controller) InitShort(c tele.Context) error {
	return ctrl.initOrder(c, model.ExpectingShortOrder, ctrl.ProcessShort, "Enter order: TICKER QTY")
}

func (ctrl *Controller) InitSell(c tele.Context) error {
	return ctrl.initOrder(c, model.ExpectingSellOrder, ctrl.ProcessSell, "Enter order: TICKER QTY [pos|long|short]")
}

func (ctrl *Controller) InitAlert(c tele.Context) error {
	return ctrl.initOrder(c, model.ExpectingAlertOrder, ctrl.ProcessAlert, "Enter alert: TICKER PRICE")
}

// initOrder processes inline arguments immediately; without arguments
// it parks the chat in the matching expecting-state so the next plain
// message completes the flow.
func (ctrl *Controller) initOrder(c tele.Context, state model.State, process tele.HandlerFunc, prompt string) error {
	if strings.TrimSpace(c.Message().Payload) != "" {
		return process(c)
	}

	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return c.Send(internalErrMsg)
	}

	chatSession.State = state
	if err := ctrl.session.SetSession(ctx, strconv.FormatInt(c.Chat().ID, 10), chatSession); err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(prompt)
}

func (ctrl *Controller) ProcessBuy(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	defer ctrl.resetSession(ctx, c)

	o, err := parseOrder(orderTokens(c))
	if err != nil {
		return c.Send("usage: TICKER QTY [pos]")
	}

	fill, err := ctrl.terminal.Buy(ctx, o.ticker, o.qty, o.bucket)
	if err != nil {
		return c.Send(orderErrMsg(err))
	}
	return c.Send(telebotConverter.FillResponse("Bought", fill))
}

func (ctrl *Controller) ProcessShort(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	defer ctrl.resetSession(ctx, c)

	o, err := parseOrder(orderTokens(c))
	if err != nil {
		return c.Send("usage: TICKER QTY")
	}

	fill, err := ctrl.terminal.Short(ctx, o.ticker, o.qty)
	if err != nil {
		return c.Send(orderErrMsg(err))
	}
	return c.Send(telebotConverter.FillResponse("Shorted", fill))
}

func (ctrl *Controller) ProcessSell(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	defer ctrl.resetSession(ctx, c)

	o, err := parseOrder(orderTokens(c))
	if err != nil {
		return c.Send("usage: TICKER QTY [pos|long|short]")
	}

	entryID, err := ctrl.resolveEntry(ctx, o)
	if err != nil {
		return c.Send(orderErrMsg(err))
	}

	fill, err := ctrl.terminal.Sell(ctx, entryID, o.qty, o.bucket)
	if err != nil {
		return c.Send(orderErrMsg(err))
	}
	return c.Send(telebotConverter.FillResponse("Sold", fill))
}

func (ctrl *Controller) ProcessAlert(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	defer ctrl.resetSession(ctx, c)

	tokens := orderTokens(c)
	if len(tokens) != 2 {
		return c.Send("usage: TICKER PRICE")
	}

	target, err := decimal.NewFromString(tokens[1])
	if err != nil || !target.IsPositive() {
		return c.Send("price must be a positive number")
	}

	alert, err := ctrl.terminal.SetAlert(ctx, strings.ToUpper(tokens[0]), target)
	if err != nil {
		return c.Send(orderErrMsg(err))
	}
	return c.Send(telebotConverter.AlertCreatedResponse(alert))
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	fileBytes, ext, err := ctrl.terminal.GenerateReport(ctx)
	if err != nil {
		slog.Error("got error from terminal.GenerateReport", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(fileBytes)),
		FileName: "portfolio" + ext,
	}
	return c.Send(doc)
}

// resolveEntry maps a user-facing ticker onto a ledger entry id. A
// ticker can have both a BUY and a SELL position open at once; without
// a long/short selector the BUY line wins, with one only the matching
// direction is considered.
func (ctrl *Controller) resolveEntry(ctx context.Context, o order) (string, error) {
	switch o.bucket {
	case model.BucketHoldings:
		holdings, err := ctrl.terminal.Holdings(ctx)
		if err != nil {
			return "", err
		}
		for _, h := range holdings {
			if h.Ticker == o.ticker {
				return h.ID, nil
			}
		}
	case model.BucketPositions:
		positions, err := ctrl.terminal.Positions(ctx)
		if err != nil {
			return "", err
		}
		for _, p := range positions {
			if p.Ticker != o.ticker {
				continue
			}
			if o.sideSet && p.Type != o.side {
				continue
			}
			return p.ID, nil
		}
	}
	return "", service.ErrNotFound
}

func (ctrl *Controller) resetSession(ctx context.Context, c tele.Context) {
	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return
	}
	chatSession.State = model.DefaultState
	_ = ctrl.session.SetSession(ctx, strconv.FormatInt(c.Chat().ID, 10), chatSession)
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
		return model.Session{}, err
	}
	return chatSession, nil
}

func orderTokens(c tele.Context) []string {
	if payload := strings.TrimSpace(c.Message().Payload); payload != "" {
		return strings.Fields(payload)
	}
	return strings.Fields(strings.TrimSpace(c.Message().Text))
}

type order struct {
	ticker  string
	qty     int
	bucket  model.Bucket
	side    model.PositionType
	sideSet bool
}

// parseOrder reads "TICKER QTY [pos|long|short]". The long and short
// selectors imply the positions bucket and pin the direction.
func parseOrder(tokens []string) (order, error) {
	if len(tokens) < 2 || len(tokens) > 3 {
		return order{}, errors.New("bad order format")
	}

	qty, err := strconv.Atoi(tokens[1])
	if err != nil {
		return order{}, err
	}

	o := order{
		ticker: strings.ToUpper(tokens[0]),
		qty:    qty,
		bucket: model.BucketHoldings,
	}

	if len(tokens) == 3 {
		switch strings.ToLower(tokens[2]) {
		case "pos":
			o.bucket = model.BucketPositions
		case "long":
			o.bucket = model.BucketPositions
			o.side = model.PositionBuy
			o.sideSet = true
		case "short":
			o.bucket = model.BucketPositions
			o.side = model.PositionSell
			o.sideSet = true
		default:
			return order{}, errors.New("bad bucket")
		}
	}

	return o, nil
}

func orderErrMsg(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "ticker or entry not found"
	case errors.Is(err, service.ErrInvalidQuantity):
		return "quantity must be a positive whole number"
	case errors.Is(err, service.ErrInsufficientQuantity):
		return "you don't hold that many"
	default:
		return internalErrMsg
	}
}
