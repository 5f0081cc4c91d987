package config

import (
	"net/url"
	"strconv"
)

// applyConnectionURL overlays a postgres:// URL onto cfg, letting
// POSTGRES_URL stand in for the individual POSTGRES_HOST/PORT/USER/...
// variables when the deployment provides a single DSN instead.
func applyConnectionURL(cfg *DatabaseConfig, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Hostname() != "" {
		cfg.Host = u.Hostname()
	}
	if p := u.Port(); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			cfg.Port = port
		}
	}
	if u.User != nil {
		if user := u.User.Username(); user != "" {
			cfg.User = user
		}
		if pass, ok := u.User.Password(); ok {
			cfg.Password = pass
		}
	}
	if len(u.Path) > 1 {
		cfg.Database = u.Path[1:]
	}
	if sslmode := u.Query().Get("sslmode"); sslmode != "" {
		cfg.SSLMode = sslmode
	}
	return nil
}
