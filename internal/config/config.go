// Package config reads server settings from flags, falling back to
// DRAUGHTS_* environment variables and then to defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr         string
	Origins      string
	IdleTTL      time.Duration
	ReapInterval time.Duration
	LogLevel     log.Level
}

func Default() Config {
	return Config{
		Addr:         ":3000",
		Origins:      "http://localhost:5173",
		IdleTTL:      30 * time.Minute,
		ReapInterval: time.Minute,
		LogLevel:     log.LevelInfo,
	}
}

// Load parses args (without the program name) on top of the environment.
func Load(args []string, getenv func(string) string) (Config, error) {
	def := Default()
	if getenv == nil {
		getenv = os.Getenv
	}

	idleTTL, err := envDuration(getenv, "DRAUGHTS_IDLE_TTL", def.IdleTTL)
	if err != nil {
		return Config{}, err
	}
	reapInterval, err := envDuration(getenv, "DRAUGHTS_REAP_INTERVAL", def.ReapInterval)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", envString(getenv, "DRAUGHTS_ADDR", def.Addr), "listen address")
	origins := fs.String("origins", envString(getenv, "DRAUGHTS_ORIGINS", def.Origins), "comma-separated CORS origins")
	ttl := fs.Duration("idle-ttl", idleTTL, "drop unwatched games idle this long (0 disables)")
	interval := fs.Duration("reap-interval", reapInterval, "how often idle games are checked")
	level := fs.String("log-level", envString(getenv, "DRAUGHTS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	lvl, err := ParseLevel(*level)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Addr:         *addr,
		Origins:      *origins,
		IdleTTL:      *ttl,
		ReapInterval: *interval,
		LogLevel:     lvl,
	}, nil
}

// OriginList splits Origins into trimmed, non-empty entries.
func (c Config) OriginList() []string {
	var out []string
	for _, o := range strings.Split(c.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("invalid log level %q", s)
}

func envString(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
