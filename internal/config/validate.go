package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var outputModes = []string{"plain", "pretty", "json", "ndjson", "tui"}

// CheckConfigValidity reports every problem it finds at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	raw := strings.TrimSpace(v.GetString("server.url"))
	if raw == "" {
		add("server.url is required")
	} else if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("server.url must be an http(s) URL, got %q", raw)
	}

	if d, err := cast.ToDurationE(v.Get("server.timeout")); err != nil || d <= 0 {
		add("server.timeout must be a positive duration")
	} else if d < time.Second {
		add("server.timeout must be at least 1s")
	}

	switch strings.ToLower(strings.TrimSpace(v.GetString("auth.store"))) {
	case "", "auto", "keyring", "file":
	default:
		add("auth.store must be auto, keyring or file")
	}

	if v.GetInt64("upload.max_bytes") <= 0 {
		add("upload.max_bytes must be greater than 0")
	}

	mode := strings.ToLower(strings.TrimSpace(v.GetString("output.mode")))
	if !slices.Contains(outputModes, mode) {
		add("output.mode must be one of %s", strings.Join(outputModes, ", "))
	}

	if v.GetInt("pretty.width") < 20 {
		add("pretty.width must be at least 20")
	}
	if v.GetInt("history.limit") < 0 {
		add("history.limit must not be negative")
	}

	switch strings.ToLower(strings.TrimSpace(v.GetString("log.level"))) {
	case "debug", "info", "warn", "error":
	default:
		add("log.level must be debug, info, warn or error")
	}

	return errors.Join(errs...)
}
