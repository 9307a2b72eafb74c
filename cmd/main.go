package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/amanmoon/my-stocks/config"
	"github.com/amanmoon/my-stocks/data/repository/memory"
	"github.com/amanmoon/my-stocks/data/session"
	"github.com/amanmoon/my-stocks/internal/haptics"
	"github.com/amanmoon/my-stocks/internal/market"
	"github.com/amanmoon/my-stocks/internal/notifier/telegramNotifier"
	"github.com/amanmoon/my-stocks/internal/pricefeed"
	"github.com/amanmoon/my-stocks/internal/reportGenerator/xlsxGenerator"
	"github.com/amanmoon/my-stocks/internal/scheduler"
	"github.com/amanmoon/my-stocks/internal/service/terminalService"
	"github.com/amanmoon/my-stocks/internal/tgbot"
	"github.com/amanmoon/my-stocks/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	repo := memory.New(market.Catalog(), market.DefaultWatchlists())

	memSession := session.NewMemorySession()

	feed := pricefeed.New(cfg.Simulation.MaxPriceStep)

	reportGenerator := xlsxGenerator.New()

	bot := tgbot.NewBot(cfg)

	notifier := telegramNotifier.New(bot, cfg.Telegram.ChatID)

	terminalSrv := terminalService.New(repo, feed, notifier, haptics.New(), reportGenerator)

	sched := scheduler.New()
	sched.NewIntervalJob("price tick", terminalSrv.RefreshPrices, cfg.Simulation.TickInterval, true)
	sched.Start()
	defer sched.Stop()

	tgController := telegram.NewController(terminalSrv, memSession)

	tgBot := tgbot.New(bot, tgController, memSession)
	tgBot.Start()
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
