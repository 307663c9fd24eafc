// SPDX-License-Identifier: MPL-2.0

package modeldata

// MaxModelData is the exclusive upper bound of hashed identifiers.
const MaxModelData = 1 << 24

// Hash computes the Java String.hashCode of s, masking every code point to
// its low byte first. Overflow wraps as int32 arithmetic does.
func Hash(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r&0xFF)
	}
	return h
}

// Reduce maps a signed hash onto [0, MaxModelData) with a floored modulo.
func Reduce(h int32) int64 {
	m := int64(h) % MaxModelData
	if m < 0 {
		m += MaxModelData
	}
	return m
}

// HashKey is Reduce(Hash(s)).
func HashKey(s string) int64 {
	return Reduce(Hash(s))
}
