package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/sie/ast"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sie.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, "PC8", cfg.Encoding)
	assert.Equal(t, ast.DateLayout, cfg.DateLayout)
	assert.Equal(t, "collect", cfg.Policy)
	assert.Equal(t, "0.005", cfg.Tolerance)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.Web.Addr())

	codec, err := cfg.Codec()
	assert.NoError(t, err)
	assert.Equal(t, "PC8", codec.FormatTag())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
encoding: utf-8
policy: fail
ignore_btrans: true
allow_under_dimensions: true
tolerance: "0.01"
log:
  level: debug
  pretty: true
web:
  port: 9000
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.True(t, cfg.IgnoreBTrans)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Web.Addr())

	opts, err := cfg.Options()
	assert.NoError(t, err)
	assert.Equal(t, ast.Fail, opts.Policy)
	assert.True(t, opts.IgnoreBTrans)
	assert.True(t, opts.AllowUnderDimensions)
	assert.False(t, opts.IgnoreRTrans)
	assert.Equal(t, ast.AllVersions, opts.AcceptedVersions)

	ledgerCfg, err := cfg.LedgerConfig()
	assert.NoError(t, err)
	assert.True(t, ledgerCfg.Tolerance.Equal(decimal.RequireFromString("0.01")))
}

func TestLoadSearchPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	assert.NoError(t, os.MkdirAll(filepath.Join(home, "sie"), 0o755))
	writeConfig(t, filepath.Join(home, "sie"), "encoding: latin1\n")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, "latin1", cfg.Encoding)
}

func TestLoadEnvironment(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "encoding: utf-8\n")
	t.Setenv("SIE_ENCODING", "latin1")
	t.Setenv("SIE_ALLOW_MISSING_GEN_DATE", "true")
	t.Setenv("SIE_WEB_PORT", "8181")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.True(t, cfg.AllowMissingGenDate)
	assert.Equal(t, 8181, cfg.Web.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected ast.Policy
		fails    bool
	}{
		{input: "collect", expected: ast.Collect},
		{input: "", expected: ast.Collect},
		{input: "Fail", expected: ast.Fail},
		{input: "throw", fails: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			policy, err := ParsePolicy(test.input)
			if test.fails {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expected, policy)
		})
	}
}

func TestParserOptions(t *testing.T) {
	cfg := &Config{Encoding: "klingon"}
	_, err := cfg.ParserOptions()
	assert.Error(t, err)

	cfg = &Config{Encoding: "utf-8", Policy: "throw"}
	_, err = cfg.ParserOptions()
	assert.Error(t, err)

	cfg = &Config{Encoding: "utf-8"}
	opts, err := cfg.ParserOptions()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(opts))

	cfg = &Config{Tolerance: "abc"}
	_, err = cfg.LedgerConfig()
	assert.Error(t, err)
}
