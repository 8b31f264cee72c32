package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "docqa"

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine; a broken one is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return err
		}
	}

	// Environment variables: DOCQA_*
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	v.Set("server.url", strings.TrimRight(strings.TrimSpace(v.GetString("server.url")), "/"))
	return nil
}

// defaultDataDir resolves $XDG_DATA_HOME/docqa or ~/.local/share/docqa.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: "", Comment: "Directory for local state; empty means $XDG_DATA_HOME/docqa. DB is data_dir/docqa.db"},

		{Key: "server.url", Default: "http://localhost:8000", Comment: "Base URL of the document assistant backend"},
		{Key: "server.timeout", Default: "30s", Comment: "HTTP request timeout; answers can take a while"},

		{Key: "auth.store", Default: "auto", Comment: "Where the access token is kept: auto, keyring or file"},
		{Key: "auth.username", Default: "", Comment: "Username offered by login"},

		{Key: "upload.max_bytes", Default: 10 << 20, Comment: "Largest PDF the client will try to upload"},

		{Key: "output.mode", Default: "plain", Comment: "Default output: plain, pretty, json, ndjson or tui"},
		{Key: "pretty.style", Default: "dracula", Comment: "glamour style for pretty output"},
		{Key: "pretty.width", Default: 80, Comment: "Word wrap width for pretty output"},

		{Key: "history.limit", Default: 200, Comment: "Messages kept on screen per document; 0 shows all"},

		{Key: "log.level", Default: "warn", Comment: "debug, info, warn or error"},
		{Key: "log.file", Default: "", Comment: "Write JSON logs here instead of stderr"},
	}
}

// ResolveDBPath returns the sqlite DB file path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	return filepath.Join(ResolveDataDir(v), appName+".db")
}

// ResolveDataDir expands ~ in data_dir and falls back to the default.
func ResolveDataDir(v *viper.Viper) string {
	dir := strings.TrimSpace(v.GetString("data_dir"))
	if dir == "" {
		dir = defaultDataDir()
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}

// Timeout returns server.timeout, or 30s when it is unset or not positive.
func Timeout(v *viper.Viper) time.Duration {
	if d := v.GetDuration("server.timeout"); d > 0 {
		return d
	}
	return 30 * time.Second
}
