package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Postgres Postgres
	Ollama   Ollama
	Qdrant   Qdrant
	Scanner  Scanner
	Bot      Bot
	Server   Server
}

type Scanner struct {
	FeedURLs             []string      `env:"SCANNER_FEED_URLS,notEmpty" envSeparator:","`
	ItemsPerFeed         int           `env:"SCANNER_ITEMS_PER_FEED" envDefault:"10"`
	Interval             time.Duration `env:"SCANNER_INTERVAL" envDefault:"1h"`
	DiscountThreshold    float64       `env:"SCANNER_DISCOUNT_THRESHOLD" envDefault:"50"`
	MaxParallelEstimates int           `env:"SCANNER_MAX_PARALLEL_ESTIMATES" envDefault:"4"`
	MaxDealsPerCycle     int           `env:"SCANNER_MAX_DEALS_PER_CYCLE" envDefault:"5"`
}

type Bot struct {
	Enabled bool   `env:"BOT_ENABLED" envDefault:"false"`
	Token   string `env:"BOT_TOKEN"`
	ChatID  int64  `env:"BOT_CHAT_ID"`
	// AdminID is the only account allowed to drive the control bot.
	// Defaults to ChatID when unset.
	AdminID int64 `env:"BOT_ADMIN_ID"`
}

type Server struct {
	ListenAddress           string `env:"SERVER_LISTEN_ADDRESS" envDefault:":8080"`
	PrometheusListenAddress string `env:"PROMETHEUS_LISTEN_ADDRESS" envDefault:":9090"`
	ProbeListenAddress      string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8091"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
