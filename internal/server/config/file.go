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

// fileConfig is the DTO for config files. Durations use timex.Duration so
// both "15m" and integer nanoseconds (JSON) are accepted.
type fileConfig struct {
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	DatabaseDSN                  string          `json:"database_dsn" toml:"database_dsn"`
	SecretKey                    string          `json:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" toml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" toml:"refresh_token_validity_duration"`
	ResetTokenValidityDuration   *timex.Duration `json:"reset_token_validity_duration" toml:"reset_token_validity_duration"`
	SignInRatePerMinute          int             `json:"sign_in_rate_per_minute" toml:"sign_in_rate_per_minute"`
	SignInBurst                  int             `json:"sign_in_burst" toml:"sign_in_burst"`
	S3RootUser                   string          `json:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password" toml:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket" toml:"s3_bucket"`
	S3Region                     string          `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	S3PublicBaseURL              string          `json:"s3_public_base_url" toml:"s3_public_base_url"`
	LogLevel                     string          `json:"log_level" toml:"log_level"`
}

// parseFile overlays cfg with the non-empty values of the file given by
// -c or -config. A .toml extension selects TOML, anything else is JSON.
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

	for dst, v := range map[*string]string{
		&cfg.EndpointAddrGRPC: fc.EndpointAddrGRPC,
		&cfg.DatabaseDSN:      fc.DatabaseDSN,
		&cfg.SecretKey:        fc.SecretKey,
		&cfg.S3RootUser:       fc.S3RootUser,
		&cfg.S3RootPassword:   fc.S3RootPassword,
		&cfg.S3Bucket:         fc.S3Bucket,
		&cfg.S3Region:         fc.S3Region,
		&cfg.S3BaseEndpoint:   fc.S3BaseEndpoint,
		&cfg.S3PublicBaseURL:  fc.S3PublicBaseURL,
		&cfg.LogLevel:         fc.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}
	for dst, v := range map[*time.Duration]*timex.Duration{
		&cfg.AccessTokenValidityDuration:  fc.AccessTokenValidityDuration,
		&cfg.RefreshTokenValidityDuration: fc.RefreshTokenValidityDuration,
		&cfg.ResetTokenValidityDuration:   fc.ResetTokenValidityDuration,
	} {
		if v != nil {
			*dst = v.Duration
		}
	}
	if fc.SignInRatePerMinute != 0 {
		cfg.SignInRatePerMinute = fc.SignInRatePerMinute
	}
	if fc.SignInBurst != 0 {
		cfg.SignInBurst = fc.SignInBurst
	}
	return nil
}
