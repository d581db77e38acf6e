// Package config loads the command line defaults with viper.
//
// Settings come from an optional sie.yaml in the working directory or in
// $XDG_CONFIG_HOME/sie, overridden by SIE_* environment variables such as
// SIE_ENCODING or SIE_WEB_PORT. Flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/charset"
	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/parser"
)

// Config holds the defaults of the command line tools.
type Config struct {
	Encoding   string `mapstructure:"encoding"`
	DateLayout string `mapstructure:"date_layout"`
	Policy     string `mapstructure:"policy"`

	IgnoreBTrans            bool `mapstructure:"ignore_btrans"`
	IgnoreRTrans            bool `mapstructure:"ignore_rtrans"`
	IgnoreMissingValueDate  bool `mapstructure:"ignore_missing_value_date"`
	AllowMissingGenDate     bool `mapstructure:"allow_missing_gen_date"`
	AllowUnbalancedVouchers bool `mapstructure:"allow_unbalanced_vouchers"`
	AllowUnderDimensions    bool `mapstructure:"allow_under_dimensions"`

	// Tolerance is the reconciliation tolerance as a decimal string.
	Tolerance string `mapstructure:"tolerance"`

	Log LogConfig `mapstructure:"log"`
	Web WebConfig `mapstructure:"web"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// WebConfig configures the inspector server.
type WebConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the listen address.
func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("encoding", "PC8")
	v.SetDefault("date_layout", ast.DateLayout)
	v.SetDefault("policy", ast.Collect.String())
	v.SetDefault("ignore_btrans", false)
	v.SetDefault("ignore_rtrans", false)
	v.SetDefault("ignore_missing_value_date", false)
	v.SetDefault("allow_missing_gen_date", false)
	v.SetDefault("allow_unbalanced_vouchers", false)
	v.SetDefault("allow_under_dimensions", false)
	v.SetDefault("tolerance", ledger.DefaultTolerance.String())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.pretty", false)
	v.SetDefault("web.host", "127.0.0.1")
	v.SetDefault("web.port", 8080)
}

// Load reads the configuration. An explicit path must exist; without one
// the default locations are searched and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("sie")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("SIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sie")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sie")
}

// Codec resolves the configured encoding.
func (c *Config) Codec() (charset.Codec, error) {
	return charset.Lookup(c.Encoding)
}

// ParsePolicy maps a policy name to its value.
func ParsePolicy(s string) (ast.Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "collect":
		return ast.Collect, nil
	case "fail":
		return ast.Fail, nil
	}
	return ast.Collect, fmt.Errorf("unknown error policy %q", s)
}

// Options returns the parser flags the configuration describes.
func (c *Config) Options() (ast.Options, error) {
	policy, err := ParsePolicy(c.Policy)
	if err != nil {
		return ast.Options{}, err
	}

	opts := ast.DefaultOptions()
	opts.Policy = policy
	opts.IgnoreBTrans = c.IgnoreBTrans
	opts.IgnoreRTrans = c.IgnoreRTrans
	opts.IgnoreMissingValueDate = c.IgnoreMissingValueDate
	opts.AllowMissingGenDate = c.AllowMissingGenDate
	opts.AllowUnbalancedVouchers = c.AllowUnbalancedVouchers
	opts.AllowUnderDimensions = c.AllowUnderDimensions
	if c.DateLayout != "" {
		opts.DateLayout = c.DateLayout
	}
	return opts, nil
}

// ParserOptions returns the codec and flags as parser options.
func (c *Config) ParserOptions() ([]parser.Option, error) {
	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return []parser.Option{parser.WithCodec(codec), parser.WithOptions(opts)}, nil
}

// LedgerConfig returns the reconciliation settings.
func (c *Config) LedgerConfig() (*ledger.Config, error) {
	cfg := ledger.NewConfig()
	if c.Tolerance == "" {
		return cfg, nil
	}
	tolerance, err := decimal.NewFromString(c.Tolerance)
	if err != nil {
		return cfg, fmt.Errorf("invalid tolerance %q: %w", c.Tolerance, err)
	}
	cfg.Tolerance = tolerance
	return cfg, nil
}
