// Package checksum implements the SIE #KSUMMA accumulator.
//
// The checksum is a CRC-32 over the reflected polynomial 0xEDB88320 with an
// all-ones start value and final inversion. Bytes are folded in as
//
//	crc = ((crc >> 8) & 0x00FFFFFF) ^ table[(crc^b)&0xff]
//
// which is the fold hash/crc32 performs for the IEEE table. The tests pin
// that equivalence byte for byte.
package checksum

import (
	"hash"
	"hash/crc32"
)

// Accumulator folds record bytes into a running checksum. The zero value
// is not started; call Start when the first #KSUMMA record is seen.
type Accumulator struct {
	h hash.Hash32
}

// Start begins accumulation. Calling it again has no effect.
func (a *Accumulator) Start() {
	if a.h != nil {
		return
	}
	a.h = crc32.NewIEEE()
}

// Started reports whether Start has been called.
func (a *Accumulator) Started() bool {
	return a.h != nil
}

// Write folds p into the accumulator. It never fails and ignores input
// until the accumulator is started.
func (a *Accumulator) Write(p []byte) (int, error) {
	if a.h == nil {
		return len(p), nil
	}
	return a.h.Write(p)
}

// Sum32 returns the finalized checksum, or zero when not started.
func (a *Accumulator) Sum32() uint32 {
	if a.h == nil {
		return 0
	}
	return a.h.Sum32()
}

// Matches reports whether a stored #KSUMMA value equals the computed
// checksum. Negative values written by signed 32-bit producers are
// compared by their bit pattern.
func (a *Accumulator) Matches(stored int64) bool {
	if stored < -1<<31 || stored > 1<<32-1 {
		return false
	}
	return uint32(stored) == a.Sum32()
}
