package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/postdesk/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   base URL of the content API
//	-t int      request timeout in seconds
//	-d string   session database path
//	-r float    requests per second
//	-l string   log level
//
// Only the flags above are considered (see flagx.FilterArgs), so -c/-config
// can coexist with them. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-r", "-l"})

	fs := flag.NewFlagSet("postdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the content API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database path")
	fs.Float64Var(&cfg.RequestsPerSecond, "r", cfg.RequestsPerSecond, "outbound requests per second, 0 = unlimited")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
