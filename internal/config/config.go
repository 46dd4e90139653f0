package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Adapter backends.
const (
	BackendIW   = "iw"
	BackendPcap = "pcap"
	BackendMock = "mock"
)

// Config holds all application configuration.
type Config struct {
	Interfaces     []string // allow-list; empty means every adapter
	SkipFirst      bool
	Backend        string
	Addr           string
	AllowedOrigins []string
	Interval       time.Duration
	PollBackoff    time.Duration
	HistorySize    int
	Dwell          time.Duration
	DBPath         string
	GRPCAddr       string
	NATSURL        string
	NATSSubject    string
	RedisAddr      string
	RedisKey       string
	SettingsPath   string
	Console        bool
	Trace          bool
	Debug          bool
	MockAdapters   int
	MockHotplug    time.Duration
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() (*Config, error) {
	return LoadArgs(flag.CommandLine, os.Args[1:])
}

// LoadArgs is Load with an explicit flag set and argument list.
func LoadArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// Defaults and Environment Variables
	ifaceStr := getEnv("RSSI_IFACES", "")
	originStr := getEnv("RSSI_ORIGINS", "")
	mock := getEnvBool("RSSI_MOCK", false)
	cfg.SkipFirst = getEnvBool("RSSI_SKIP_FIRST", false)
	cfg.Backend = getEnv("RSSI_BACKEND", BackendIW)
	cfg.Addr = getEnv("RSSI_ADDR", ":8080")
	cfg.Interval = getEnvDuration("RSSI_INTERVAL", time.Second)
	cfg.PollBackoff = getEnvDuration("RSSI_POLL_BACKOFF", time.Second)
	cfg.HistorySize = getEnvInt("RSSI_HISTORY", 8)
	cfg.Dwell = getEnvDuration("RSSI_DWELL", 500*time.Millisecond)
	cfg.DBPath = getEnv("RSSI_DB", getDefaultDBPath())
	cfg.GRPCAddr = getEnv("RSSI_GRPC", "")
	cfg.NATSURL = getEnv("RSSI_NATS", "")
	cfg.NATSSubject = getEnv("RSSI_NATS_SUBJECT", "rssi.rounds")
	cfg.RedisAddr = getEnv("RSSI_REDIS", "")
	cfg.RedisKey = getEnv("RSSI_REDIS_KEY", "rssi:latest")
	cfg.SettingsPath = getEnv("RSSI_SETTINGS", "")
	cfg.Console = getEnvBool("RSSI_CONSOLE", false)
	cfg.Trace = getEnvBool("RSSI_TRACE", false)
	cfg.MockAdapters = getEnvInt("RSSI_MOCK_ADAPTERS", 3)
	cfg.MockHotplug = getEnvDuration("RSSI_MOCK_HOTPLUG", 0)

	// Command Line Flags (Override Env)
	fs.StringVar(&ifaceStr, "i", ifaceStr, "Adapters to use (comma separated, empty for all)")
	fs.BoolVar(&cfg.SkipFirst, "skip-first", cfg.SkipFirst, "Ignore the first enumerated adapter (usually the built-in card)")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Scan backend: iw, pcap or mock")
	fs.BoolVar(&mock, "mock", mock, "Run with simulated adapters (same as -backend mock)")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	fs.StringVar(&originStr, "origins", originStr, "Allowed WebSocket origins (comma separated)")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Round interval")
	fs.DurationVar(&cfg.PollBackoff, "poll-backoff", cfg.PollBackoff, "Enumeration poll period while no adapter is available")
	fs.IntVar(&cfg.HistorySize, "history", cfg.HistorySize, "Averages kept per network")
	fs.DurationVar(&cfg.Dwell, "dwell", cfg.Dwell, "Beacon capture time per scan (pcap backend)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite event journal (empty to disable)")
	fs.StringVar(&cfg.GRPCAddr, "grpc", cfg.GRPCAddr, "gRPC listen address (empty to disable)")
	fs.StringVar(&cfg.NATSURL, "nats", cfg.NATSURL, "NATS server URL (empty to disable)")
	fs.StringVar(&cfg.NATSSubject, "nats-subject", cfg.NATSSubject, "NATS subject for round summaries")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address (empty to disable)")
	fs.StringVar(&cfg.RedisKey, "redis-key", cfg.RedisKey, "Redis key holding the latest summary")
	fs.StringVar(&cfg.SettingsPath, "settings", cfg.SettingsPath, "YAML analysis settings file, reloaded on change")
	fs.BoolVar(&cfg.Console, "console", cfg.Console, "Print a table to stdout every round")
	fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "Write OpenTelemetry spans to stderr")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")
	fs.IntVar(&cfg.MockAdapters, "mock-adapters", cfg.MockAdapters, "Number of simulated adapters")
	fs.DurationVar(&cfg.MockHotplug, "mock-hotplug", cfg.MockHotplug, "Unplug and replug a simulated adapter with this period (0 disables)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if mock {
		cfg.Backend = BackendMock
	}
	cfg.Interfaces = parseList(ifaceStr)
	cfg.AllowedOrigins = parseList(originStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendIW, BackendPcap, BackendMock:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.PollBackoff <= 0 {
		return fmt.Errorf("poll backoff must be positive, got %s", c.PollBackoff)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("history size must be at least 1, got %d", c.HistorySize)
	}
	if c.Backend == BackendMock && c.MockAdapters < 1 {
		return fmt.Errorf("mock backend needs at least one adapter")
	}
	return nil
}

func parseList(s string) []string {
	var items []string
	if s == "" {
		return items
	}
	parts := strings.Split(s, ",")
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getDefaultDBPath returns the default journal path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "rssi-journal.db"
	}

	dir := filepath.Join(home, ".rssi-analyzer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create %s, using current dir: %v", dir, err)
		return "rssi-journal.db"
	}

	return filepath.Join(dir, "journal.db")
}
