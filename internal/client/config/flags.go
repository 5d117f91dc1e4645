package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/flagx"
)

// ValueFlags lists every value-taking flag the CLI understands, including the
// config file flags. The CLI uses it to separate commands from flags.
var ValueFlags = []string{"-a", "-i", "-p", "-m", "-d", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the backend server
//	-i int      entitlement status poll interval (in seconds)
//	-p string   platform: web, ios or android
//	-m string   environment: test or live
//	-d string   path of the local database file
//
// It panics on invalid values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-p", "-m", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	pollInterval := fs.Int("i", int(cfg.StatusPollInterval.Seconds()), "status poll interval (in seconds)")
	platform := fs.String("p", string(cfg.Platform), "platform (web, ios, android)")
	mode := fs.String("m", modeName(cfg.IsLive), "environment (test, live)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	p := common.Platform(*platform)
	if !p.Valid() {
		panic(fmt.Errorf("unknown platform %q", *platform))
	}
	if *pollInterval <= 0 {
		panic(fmt.Errorf("poll interval must be positive, got %d", *pollInterval))
	}

	switch *mode {
	case "live":
		cfg.IsLive = true
	case "test":
		cfg.IsLive = false
	default:
		panic(fmt.Errorf("unknown environment %q", *mode))
	}

	cfg.Platform = p
	cfg.StatusPollInterval = time.Duration(*pollInterval) * time.Second
}

func modeName(live bool) string {
	if live {
		return "live"
	}
	return "test"
}
