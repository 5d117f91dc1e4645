package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/distillr/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-h string   metrics/health HTTP bind address, empty to disable
//	-d string   PostgreSQL DSN, empty for in-memory storage
//	-s string   session token HMAC secret
//	-t int      session token validity, hours
//	-q int      daily free distills per device
//
// Notes:
//   - os.Args is filtered with flagx.FilterArgs first, so -c/-config and
//     unknown flags do not break parsing.
//   - It panics on malformed or out-of-range values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-h", "-d", "-s", "-t", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.EndpointAddrHTTP, "h", config.EndpointAddrHTTP, "address and port for metrics and health checks")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Hours()), "session_validity_duration (in hours)")
	fs.IntVar(&config.DailyFreeUses, "q", config.DailyFreeUses, "daily free uses per device")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *sessionValidity <= 0 {
		panic(fmt.Errorf("session validity must be positive, got %d", *sessionValidity))
	}
	if config.DailyFreeUses < 0 {
		panic(fmt.Errorf("daily free uses must not be negative, got %d", config.DailyFreeUses))
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Hour
}
