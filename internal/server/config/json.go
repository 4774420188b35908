package config

import (
	"encoding/json"
	"os"
	"time"

	"filesafe/internal/flagx"
	"filesafe/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	Addr                        string         `json:"address"`
	DatabaseDSN                 string         `json:"database_dsn"`
	RootFolder                  string         `json:"root_folder"`
	SecretKey                   string         `json:"secret_key"`
	ServiceToken                string         `json:"service_token"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	MaxDBConnections            int            `json:"max_db_connections"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.Addr = c.Addr
	config.DatabaseDSN = c.DatabaseDSN
	config.RootFolder = c.RootFolder
	config.SecretKey = c.SecretKey
	config.ServiceToken = c.ServiceToken
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.MaxDBConnections = c.MaxDBConnections
}
