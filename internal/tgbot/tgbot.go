package tgbot

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/amanmoon/my-stocks/config"
	"github.com/amanmoon/my-stocks/internal/model"
	"github.com/amanmoon/my-stocks/internal/transport/telegram"
	customMW "github.com/amanmoon/my-stocks/internal/transport/telegram/middleware"
	"github.com/amanmoon/my-stocks/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

type TGBot struct {
	bot     *tele.Bot
	ctrl    *telegram.Controller
	session Session
}

// NewBot builds the underlying telebot instance. It is created
// separately from TGBot so the notification sink can share it.
func NewBot(cfg *config.Config) *tele.Bot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return b
}

func New(bot *tele.Bot, ctrl *telegram.Controller, session Session) *TGBot {
	return &TGBot{bot: bot, ctrl: ctrl, session: session}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	// plain text completes whichever flow the chat is parked in
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)

		chatSession, err := b.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
		if err != nil {
			return c.Send("start with one of the commands, see /start")
		}

		c.Set("session", chatSession)

		switch chatSession.State {
		case model.ExpectingBuyOrder:
			return b.ctrl.ProcessBuy(c)
		case model.ExpectingShortOrder:
			return b.ctrl.ProcessShort(c)
		case model.ExpectingSellOrder:
			return b.ctrl.ProcessSell(c)
		case model.ExpectingAlertOrder:
			return b.ctrl.ProcessAlert(c)
		default:
			slog.Debug("text outside a flow", slog.String("rqID", rqID))
			return c.Send("start with one of the commands, see /start")
		}
	})

	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/quotes", b.ctrl.Quotes)
	b.bot.Handle("/portfolio", b.ctrl.Portfolio)
	b.bot.Handle("/positions", b.ctrl.Positions)
	b.bot.Handle("/buy", b.ctrl.InitBuy)
	b.bot.Handle("/short", b.ctrl.InitShort)
	b.bot.Handle("/sell", b.ctrl.InitSell)
	b.bot.Handle("/alert", b.ctrl.InitAlert)
	b.bot.Handle("/alerts", b.ctrl.Alerts)
	b.bot.Handle("/watchlists", b.ctrl.Watchlists)
	b.bot.Handle("/watchlist", b.ctrl.Watchlist)
	b.bot.Handle("/watch", b.ctrl.Watch)
	b.bot.Handle("/unwatch", b.ctrl.Unwatch)
	b.bot.Handle("/report", b.ctrl.Report)
}
