// SPDX-License-Identifier: MPL-2.0

package modeldata

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// ID is a custom model data identifier held as canonical base-10 text: an
// optional '-', no leading zeros. Literal keys are not bounded, so an ID may
// not fit any machine integer. IDs compare with == and order with Cmp.
type ID struct {
	digits string
}

// NewID returns the ID of n.
func NewID(n int64) ID {
	return ID{digits: strconv.FormatInt(n, 10)}
}

// IDFromBig returns the ID of n.
func IDFromBig(n *big.Int) ID {
	return ID{digits: n.String()}
}

// String returns the decimal form. The zero value reads as "0".
func (id ID) String() string {
	if id.digits == "" {
		return "0"
	}
	return id.digits
}

// MarshalJSON writes the identifier as a bare JSON number, every digit kept.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

// Int64 returns id as an int64 when it fits.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	return n, err == nil
}

// Cmp returns -1, 0 or +1 as id is less than, equal to or greater than o.
func (id ID) Cmp(o ID) int {
	a, b := id.String(), o.String()
	aNeg, bNeg := strings.HasPrefix(a, "-"), strings.HasPrefix(b, "-")
	switch {
	case aNeg && !bNeg:
		return -1
	case !aNeg && bNeg:
		return 1
	case aNeg:
		return cmpMagnitude(b[1:], a[1:])
	default:
		return cmpMagnitude(a, b)
	}
}

// cmpMagnitude orders digit strings without leading zeros.
func cmpMagnitude(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// ParseLiteral reports whether key is an integer literal and returns its
// value. It reads keys the way Python's int() does: surrounding whitespace is
// ignored, one '+' or '-' may lead, and the digits (any Unicode decimal
// digits) may be grouped by single underscores. There is no size limit.
func ParseLiteral(key string) (ID, bool) {
	s := strings.TrimFunc(key, isSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var digits strings.Builder
	afterDigit := false
	for _, r := range s {
		if r == '_' {
			if !afterDigit {
				return ID{}, false
			}
			afterDigit = false
			continue
		}
		d, ok := decimalDigit(r)
		if !ok {
			return ID{}, false
		}
		digits.WriteByte('0' + d)
		afterDigit = true
	}
	if !afterDigit {
		return ID{}, false
	}

	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return ID{}, false
	}
	if neg {
		n.Neg(n)
	}
	return IDFromBig(n), true
}

// isSpace matches the characters Python's str.strip() removes: Unicode
// white space plus the ASCII separators U+001C to U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1C && r <= 0x1F)
}

// decimalDigit returns the value of a Unicode decimal digit. Decimal digits
// are encoded in contiguous runs from zero to nine, so the value is the
// distance from the start of r's run, modulo ten.
func decimalDigit(r rune) (byte, bool) {
	if r >= '0' && r <= '9' {
		return byte(r - '0'), true
	}
	if !unicode.Is(unicode.Nd, r) {
		return 0, false
	}
	offset := 0
	for unicode.Is(unicode.Nd, r-rune(offset)-1) {
		offset++
	}
	return byte(offset % 10), true
}
