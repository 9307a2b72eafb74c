package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	Telegram   Telegram
	Simulation Simulation
}

type Telegram struct {
	Token      string        `env:"TELEGRAM_TOKEN"`
	ChatID     int64         `env:"TELEGRAM_CHAT_ID"`
	UpdTimeout time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
}

type Simulation struct {
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"3s"`
	MaxPriceStep float64       `env:"MAX_PRICE_STEP" envDefault:"0.25"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
