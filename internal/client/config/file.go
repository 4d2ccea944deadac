package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/bikebed/internal/flagx"
	"github.com/dmitrijs2005/bikebed/internal/timex"
)

// fileConfig is the DTO for config files. Durations accept "3s" strings
// (and integer nanoseconds in JSON).
type fileConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr" toml:"server_endpoint_addr"`
	Gateway            string          `json:"gateway" toml:"gateway"`
	Store              string          `json:"store" toml:"store"`
	DataFile           string          `json:"data_file" toml:"data_file"`
	GatewayTimeout     *timex.Duration `json:"gateway_timeout" toml:"gateway_timeout"`
	MockDelay          *timex.Duration `json:"mock_delay" toml:"mock_delay"`
	LogLevel           string          `json:"log_level" toml:"log_level"`

	OnlineCheckInterval *timex.Duration `json:"online_check_interval" toml:"online_check_interval"`
}

// parseFile overlays cfg with the non-empty values of the file given by
// -c or -config. Files ending in .toml are TOML, everything else JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	setString(&cfg.Gateway, fc.Gateway)
	setString(&cfg.Store, fc.Store)
	setString(&cfg.DataFile, fc.DataFile)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.GatewayTimeout != nil {
		cfg.GatewayTimeout = time.Duration(fc.GatewayTimeout.Duration)
	}
	if fc.MockDelay != nil {
		cfg.MockDelay = time.Duration(fc.MockDelay.Duration)
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = time.Duration(fc.OnlineCheckInterval.Duration)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
