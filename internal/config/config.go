package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SourceFixture  = "fixture"
	SourcePostgres = "postgres"
	SourceREST     = "rest"
)

// MaxFeedSize caps how many entries a single feed may request.
const MaxFeedSize = 100

// SourceConfig selects and configures the dashboard data source.
type SourceConfig struct {
	Kind        string
	FixturePath string
	DBURL       string
	RESTURL     string
	RESTPaths   RESTPaths
	FeedSize    uint
	MaxRetries  uint
	StatsWindow uint
}

// RESTPaths are dot/index paths to the payload inside each REST response envelope.
// An empty path means the response body is the payload.
type RESTPaths struct {
	Stats        string
	Blocks       string
	Transactions string
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// LogConfig configures the default slog logger.
type LogConfig struct {
	Level  string
	Format string
}

func (c SourceConfig) Validate() error {
	if c.FeedSize == 0 {
		return fmt.Errorf("feed size must be greater than 0")
	}
	if c.FeedSize > MaxFeedSize {
		return fmt.Errorf("feed size must be at most %d, got %d", MaxFeedSize, c.FeedSize)
	}
	switch c.Kind {
	case SourceFixture:
	case SourcePostgres:
		if c.DBURL == "" {
			return fmt.Errorf("db-url is required for the %s source", SourcePostgres)
		}
		if c.StatsWindow < 2 {
			return fmt.Errorf("stats window must be at least 2 blocks")
		}
	case SourceREST:
		if c.RESTURL == "" {
			return fmt.Errorf("rest-url is required for the %s source", SourceREST)
		}
	default:
		return fmt.Errorf("unknown source %q (want %s, %s or %s)", c.Kind, SourceFixture, SourcePostgres, SourceREST)
	}
	return nil
}

func (c ServeConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("read and write timeouts must be positive")
	}
	return nil
}

func LoadSourceConfig() SourceConfig {
	return SourceConfig{
		Kind:        viper.GetString("source"),
		FixturePath: viper.GetString("fixture"),
		DBURL:       viper.GetString("db-url"),
		RESTURL:     viper.GetString("rest-url"),
		RESTPaths: RESTPaths{
			Stats:        viper.GetString("rest-stats-path"),
			Blocks:       viper.GetString("rest-blocks-path"),
			Transactions: viper.GetString("rest-transactions-path"),
		},
		FeedSize:    viper.GetUint("feed-size"),
		MaxRetries:  viper.GetUint("max-retries"),
		StatsWindow: viper.GetUint("stats-window"),
	}
}

func LoadServeConfig() ServeConfig {
	return ServeConfig{
		Addr:            viper.GetString("listen"),
		ReadTimeout:     viper.GetDuration("read-timeout"),
		WriteTimeout:    viper.GetDuration("write-timeout"),
		IdleTimeout:     viper.GetDuration("idle-timeout"),
		ShutdownTimeout: viper.GetDuration("shutdown-timeout"),
		AllowedOrigins:  viper.GetStringSlice("allowed-origins"),
	}
}

func LoadLogConfig() LogConfig {
	return LogConfig{
		Level:  viper.GetString("log-level"),
		Format: viper.GetString("log-format"),
	}
}

// SetupLogger installs the default slog logger.
func (c LogConfig) SetupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.Format) {
	case "", "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
