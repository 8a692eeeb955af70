package config

import (
	"flag"
	"os"
	"time"

	"github.com/deckforge/deckforge/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-t int      graceful shutdown timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	shutdownTimeout := fs.Int("t", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
}
