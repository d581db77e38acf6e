package parser

import (
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/charset"
)

// Option configures a Parser.
type Option func(*config)

type config struct {
	opts     ast.Options
	codec    charset.Codec
	sink     Sink
	filename string
	logger   *zerolog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		opts:  ast.DefaultOptions(),
		codec: charset.Default(),
		sink:  NopSink{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithPolicy selects whether recoverable errors are collected or returned
// immediately.
func WithPolicy(policy ast.Policy) Option {
	return func(c *config) {
		c.opts.Policy = policy
	}
}

// WithIgnoreBTrans skips #BTRANS rows.
func WithIgnoreBTrans(ignore bool) Option {
	return func(c *config) {
		c.opts.IgnoreBTrans = ignore
	}
}

// WithIgnoreRTrans skips #RTRANS rows.
func WithIgnoreRTrans(ignore bool) Option {
	return func(c *config) {
		c.opts.IgnoreRTrans = ignore
	}
}

// WithIgnoreMissingValueDate accepts SIE 2 and 3 files with balances but
// no #OMFATTN.
func WithIgnoreMissingValueDate(ignore bool) Option {
	return func(c *config) {
		c.opts.IgnoreMissingValueDate = ignore
	}
}

// WithAllowMissingGenDate accepts files without a #GEN date.
func WithAllowMissingGenDate(allow bool) Option {
	return func(c *config) {
		c.opts.AllowMissingGenDate = allow
	}
}

// WithAllowUnbalancedVouchers disables the voucher balance check.
func WithAllowUnbalancedVouchers(allow bool) Option {
	return func(c *config) {
		c.opts.AllowUnbalancedVouchers = allow
	}
}

// WithAllowUnderDimensions accepts #UNDERDIM records.
func WithAllowUnderDimensions(allow bool) Option {
	return func(c *config) {
		c.opts.AllowUnderDimensions = allow
	}
}

// WithStreamValues delivers period values and vouchers to the sink only,
// without keeping them in the document.
func WithStreamValues(stream bool) Option {
	return func(c *config) {
		c.opts.StreamValues = stream
	}
}

// WithAcceptedVersions restricts the SIE types that are read. A file
// declaring another type is rejected.
func WithAcceptedVersions(mask ast.VersionMask) Option {
	return func(c *config) {
		c.opts.AcceptedVersions = mask
	}
}

// WithDateLayout sets the time layout dates are parsed with.
func WithDateLayout(layout string) Option {
	return func(c *config) {
		c.opts.DateLayout = layout
	}
}

// WithOptions replaces all behavioral flags at once.
func WithOptions(opts ast.Options) Option {
	return func(c *config) {
		c.opts = opts
	}
}

// WithCodec sets the text codec. It decides how readers are decoded and
// how records are encoded for the checksum.
func WithCodec(codec charset.Codec) Option {
	return func(c *config) {
		c.codec = codec
	}
}

// WithSink sets the receiver of parse events.
func WithSink(sink Sink) Option {
	return func(c *config) {
		if sink == nil {
			sink = NopSink{}
		}
		c.sink = sink
	}
}

// WithFilename sets the filename reported in positions.
func WithFilename(filename string) Option {
	return func(c *config) {
		c.filename = filename
	}
}

// WithLogger sets the logger. By default the logger of the context passed
// to Parse is used.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &logger
	}
}
