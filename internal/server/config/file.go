package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/bannakon/zentasks/internal/flagx"
	"github.com/bannakon/zentasks/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// either strings such as "15m" or integer nanoseconds.
//
// Only fields present in the file override the current values.
type FileConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN                  *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	PasswordHashCost             *int            `json:"password_hash_cost" yaml:"password_hash_cost"`
	HealthCheckInterval          *timex.Duration `json:"health_check_interval" yaml:"health_check_interval"`
	LogLevel                     *string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays values from the file named by -c/-config onto config.
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
// Nothing happens when no file is given; an unreadable or invalid file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(config *Config) {
	if fc.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *fc.EndpointAddrHTTP
	}
	if fc.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *fc.EndpointAddrGRPC
	}
	if fc.DatabaseDSN != nil {
		config.DatabaseDSN = *fc.DatabaseDSN
	}
	if fc.SecretKey != nil {
		config.SecretKey = *fc.SecretKey
	}
	if fc.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = fc.RefreshTokenValidityDuration.Duration
	}
	if fc.PasswordHashCost != nil {
		config.PasswordHashCost = *fc.PasswordHashCost
	}
	if fc.HealthCheckInterval != nil {
		config.HealthCheckInterval = fc.HealthCheckInterval.Duration
	}
	if fc.LogLevel != nil {
		config.LogLevel = *fc.LogLevel
	}
}
