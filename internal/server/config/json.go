package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/deckforge/deckforge/internal/flagx"
	"github.com/deckforge/deckforge/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both string
// values such as "5s" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; if
// neither is set, no JSON file is loaded. An unreadable or invalid file
// panics: a half-applied config is worse than not starting.
func parseJson(config *Config) {

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

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.ShutdownTimeout = time.Duration(c.ShutdownTimeout.Duration)
}
