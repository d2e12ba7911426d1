// Package base36 converts record ids to short codes and back.
package base36

import (
	"errors"
	"math"
)

// Digits is the base36 alphabet indexed by digit value
const Digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// ErrInvalidCode is returned when a string is not a base36 number
var ErrInvalidCode = errors.New("invalid base36 code")

// Encode returns the base36 representation of n without leading zeros.
// n must be positive.
func Encode(n uint64) string {
	if n == 0 {
		panic("base36: Encode called with 0")
	}

	var buf [13]byte // 36^13 > 2^64
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Digits[n%36]
		n /= 36
	}
	return string(buf[i:])
}

// Decode parses a base36 string. Upper case letters are folded to lower case.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrInvalidCode
	}

	var n uint64
	for i := 0; i < len(s); i++ {
		v, ok := digitValue(s[i])
		if !ok {
			return 0, ErrInvalidCode
		}
		if n > (math.MaxUint64-v)/36 {
			return 0, ErrInvalidCode
		}
		n = n*36 + v
	}
	return n, nil
}

func digitValue(c byte) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return uint64(c-'A') + 10, true
	}
	return 0, false
}
