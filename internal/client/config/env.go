package config

import "github.com/caarlos0/env/v11"

const envPrefix = "POSTDESK_"

// parseEnv overlays cfg with POSTDESK_* variables. Unset variables leave the
// current value alone; malformed ones panic.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
