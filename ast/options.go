package ast

// Policy selects how recoverable errors are handled while reading.
type Policy uint8

const (
	// Collect records every recoverable error and keeps reading.
	Collect Policy = iota
	// Fail stops at the first recoverable error and returns it.
	Fail
)

func (p Policy) String() string {
	if p == Fail {
		return "fail"
	}
	return "collect"
}

// VersionMask is a bit set of accepted SIE types; bit n-1 accepts type n.
type VersionMask uint8

// AllVersions accepts SIE types 1 through 4.
const AllVersions VersionMask = 0b1111

// Versions builds a mask accepting the given SIE types.
func Versions(types ...int) VersionMask {
	var m VersionMask
	for _, t := range types {
		if t >= 1 && t <= 8 {
			m |= 1 << (t - 1)
		}
	}
	return m
}

// Accepts reports whether SIE type t is in the mask.
func (m VersionMask) Accepts(t int) bool {
	if t < 1 || t > 8 {
		return false
	}
	return m&(1<<(t-1)) != 0
}

// Options are the behavioral flags a document is read with.
type Options struct {
	Policy                  Policy
	IgnoreBTrans            bool
	IgnoreRTrans            bool
	IgnoreMissingValueDate  bool
	AllowMissingGenDate     bool
	AllowUnbalancedVouchers bool
	AllowUnderDimensions    bool

	// StreamValues skips retention of period values and vouchers; they are
	// only delivered to the parser's sink.
	StreamValues bool

	AcceptedVersions VersionMask
	DateLayout       string
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Policy:           Collect,
		AcceptedVersions: AllVersions,
		DateLayout:       DateLayout,
	}
}
