package parser

// Interner implements string interning for repeated record fields.
//
// SIE files repeat the same short strings on almost every line:
// - Account numbers (e.g., "1910", "3010")
// - Dates (e.g., "20240131")
// - Dimension and object numbers inside object lists
// - Voucher series
//
// Keeping one canonical instance per value lets every record of a
// large export share it.
type Interner struct {
	pool map[string]string
}

// NewInterner creates a new string interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of the string.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the intern pool.
func (i *Interner) Size() int {
	return len(i.pool)
}
