package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/filex"
)

// Gateway and store kinds.
const (
	GatewayMock = "mock"
	GatewayGRPC = "grpc"
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the Bike & Bed client.
type Config struct {
	ServerEndpointAddr string
	Gateway            string
	Store              string
	DataFile           string
	GatewayTimeout     time.Duration
	MockDelay          time.Duration
	LogLevel           string

	// OnlineCheckInterval is how often the gateway is pinged; zero disables
	// the check.
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Gateway = GatewayMock
	c.Store = StoreSQLite
	c.DataFile = filepath.Join(filex.DefaultDataDir("bikebed"), "state.db")
	c.GatewayTimeout = 15 * time.Second
	c.MockDelay = 500 * time.Millisecond
	c.LogLevel = "warn"
	c.OnlineCheckInterval = 10 * time.Second
}

func (c *Config) Validate() error {
	switch c.Gateway {
	case GatewayMock, GatewayGRPC:
	default:
		return fmt.Errorf("%w: gateway %q", ErrInvalidConfig, c.Gateway)
	}
	switch c.Store {
	case StoreSQLite, StoreBolt:
	default:
		return fmt.Errorf("%w: store %q", ErrInvalidConfig, c.Store)
	}
	if c.DataFile == "" {
		return fmt.Errorf("%w: empty data file", ErrInvalidConfig)
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("%w: gateway timeout must be positive", ErrInvalidConfig)
	}
	if c.OnlineCheckInterval < 0 {
		return fmt.Errorf("%w: negative online check interval", ErrInvalidConfig)
	}
	return nil
}

// Load applies defaults, then the config file named by -c/-config, then
// flags. Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args; it panics on error.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
