package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory
//	-b string   records backend ("csv" or "sqlite")
//	-q string   sqlite database path
//	-s string   session token HMAC secret
//	-t int      session token validity, minutes
//	-r int      post-mutation refresh delay, milliseconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-q", "-s", "-t", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.RecordsBackend, "b", config.RecordsBackend, "records backend (csv or sqlite)")
	fs.StringVar(&config.SQLitePath, "q", config.SQLitePath, "sqlite database path")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session token secret")

	sessionTokenTTL := fs.Int("t", int(config.SessionTokenTTL.Minutes()), "session_token_ttl (in minutes)")
	refreshDelay := fs.Int("r", int(config.RefreshDelay.Milliseconds()), "refresh_delay (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenTTL = time.Duration(*sessionTokenTTL) * time.Minute
	config.RefreshDelay = time.Duration(*refreshDelay) * time.Millisecond
}
