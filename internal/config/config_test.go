package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", "/tmp/docqa")

	if err := CheckConfigValidity(v); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("server.url", "localhost:8000")
	v.Set("server.timeout", "soon")
	v.Set("auth.store", "vault")
	v.Set("upload.max_bytes", 0)
	v.Set("output.mode", "yaml")
	v.Set("pretty.width", 5)
	v.Set("history.limit", -1)
	v.Set("log.level", "loud")

	err := CheckConfigValidity(v)
	if err == nil {
		t.Fatalf("expected error for invalid config")
	}

	msg := err.Error()
	expected := []string{
		"server.url must be an http(s) URL",
		"server.timeout must be a positive duration",
		"auth.store must be auto, keyring or file",
		"upload.max_bytes must be greater than 0",
		"output.mode must be one of plain, pretty, json, ndjson, tui",
		"pretty.width must be at least 20",
		"history.limit must not be negative",
		"log.level must be debug, info, warn or error",
	}
	for _, want := range expected {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to contain %q, got %q", want, msg)
		}
	}
}

func TestCheckConfigValidityShortTimeout(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("server.timeout", "200ms")
	err := CheckConfigValidity(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.timeout must be at least 1s")
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nurl = \"http://files:9000/\"\n\n[pretty]\nwidth = 100\n"), 0o600))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("DOCQA_PRETTY_WIDTH", "120")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, "http://files:9000", v.GetString("server.url"))
	assert.Equal(t, 120, v.GetInt("pretty.width"))
	assert.Equal(t, "dracula", v.GetString("pretty.style"))
	assert.Equal(t, filepath.Join(dir, "data", "docqa"), v.GetString("data_dir"))
	assert.Equal(t, filepath.Join(dir, "data", "docqa", "docqa.db"), ResolveDBPath(v))
	assert.Equal(t, "30s", Timeout(v).String())
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nurl = "), 0o600))
	v := viper.New()
	v.SetConfigFile(path)
	assert.Error(t, Load(context.Background(), v))
}

func TestRenderDefaultTOML(t *testing.T) {
	out := RenderDefaultTOML()
	for _, o := range GetConfigOptions() {
		name := o.Key
		if i := strings.Index(o.Key, "."); i >= 0 {
			assert.Contains(t, out, "["+o.Key[:i]+"]")
			name = o.Key[i+1:]
		}
		assert.Contains(t, out, name+" = ", o.Key)
	}
	assert.Contains(t, out, `url = "http://localhost:8000"`)
	assert.Contains(t, out, "max_bytes = 10485760")

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	assert.Equal(t, "dracula", v.GetString("pretty.style"))
}

func TestUpdateTOML(t *testing.T) {
	in := "[server]\nurl = \"http://x:1\"\nlegacy = true\n"
	out, changed := UpdateTOML(in)
	assert.True(t, changed)
	assert.Contains(t, out, `url = "http://x:1"`)
	assert.Contains(t, out, "# OUTDATED: option removed from config schema")
	assert.Contains(t, out, "# legacy = true")
	assert.Contains(t, out, "[pretty]")
}

func TestUpdateTOMLKeepsTablesUnique(t *testing.T) {
	in := "[server]\nurl = \"http://x:1\"\n\n[log]\nlevel = \"debug\"\n"
	out, changed := UpdateTOML(in)
	require.True(t, changed)
	assert.Equal(t, 1, strings.Count(out, "[server]"), out)
	assert.Equal(t, 1, strings.Count(out, "[log]"), out)
	assert.Less(t, strings.Index(out, "data_dir = "), strings.Index(out, "[server]"), out)

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	assert.Equal(t, "http://x:1", v.GetString("server.url"))
	assert.Equal(t, "30s", v.GetString("server.timeout"))
	assert.Equal(t, "debug", v.GetString("log.level"))
	assert.True(t, v.IsSet("data_dir"))

	again, changed := UpdateTOML(out)
	assert.False(t, changed)
	assert.Equal(t, out, again)
}

func TestSetOptionQuotesStrings(t *testing.T) {
	raw := `say "hi" \ C:\dir` + "\tend"
	out, err := SetOption(RenderDefaultTOML(), "auth.username", raw)
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	assert.Equal(t, raw, v.GetString("auth.username"))
}

func TestTOMLQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, tomlQuote("plain"))
	assert.Equal(t, `"a\"b\\c"`, tomlQuote(`a"b\c`))
	assert.Equal(t, `"x\u001By"`, tomlQuote("x\x1by"))
}

func TestSetOption(t *testing.T) {
	in := "# mine\ndata_dir = \"/d\"\n\n[server]\nurl = \"http://old\"\n\n[log]\nlevel = \"warn\"\n"

	out, err := SetOption(in, "server.url", "http://new:8000")
	require.NoError(t, err)
	assert.Contains(t, out, "url = \"http://new:8000\"")
	assert.NotContains(t, out, "http://old")

	out, err = SetOption(out, "server.timeout", "1m")
	require.NoError(t, err)
	assert.Contains(t, out, "[server]\nurl = \"http://new:8000\"\ntimeout = \"1m\"\n\n[log]")

	out, err = SetOption(out, "pretty.width", 100)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "[pretty]\nwidth = 100"), out)

	out, err = SetOption(out, "data_dir", "/e")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# mine\ndata_dir = \"/e\"\n"), out)

	_, err = SetOption(out, "nope.key", 1)
	assert.Error(t, err)

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	assert.Equal(t, 100, v.GetInt("pretty.width"))
	assert.Equal(t, "warn", v.GetString("log.level"))
}

func TestParseValue(t *testing.T) {
	o, ok := LookupOption("pretty.width")
	require.True(t, ok)
	n, err := ParseValue(o, " 90 ")
	require.NoError(t, err)
	assert.Equal(t, 90, n)
	_, err = ParseValue(o, "wide")
	assert.Error(t, err)

	o, _ = LookupOption("server.url")
	s, err := ParseValue(o, "http://h")
	require.NoError(t, err)
	assert.Equal(t, "http://h", s)
}
