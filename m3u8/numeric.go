package m3u8

/*
 This file defines the integer, fixed-point time and attribute scanners.
 All arithmetic saturates; none of these functions allocate.
*/

import (
	"bytes"
	"math"
)

const fracDigits = 6

var bandwidthAttr = []byte("BANDWIDTH=")

// ParseInt parses a decimal integer at the start of b. The number ends at
// the first space or tab; an optional '+' or '-' may precede the digits and
// parsing stops at the first non-digit. It returns the value, the number of
// bytes consumed and whether any digit was found. Values beyond the int64
// range saturate.
func ParseInt(b []byte) (int64, int, bool) {
	if i := bytes.IndexAny(b, " \t"); i >= 0 {
		b = b[:i]
	}
	i := 0
	neg := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}
	var v int64
	digits := 0
	for ; i < len(b) && isDigit(b[i]); i++ {
		v = accumulate(v, b[i], neg)
		digits++
	}
	if digits == 0 {
		return 0, 0, false
	}
	return v, i, true
}

// ParseMicros parses seconds written as <int>[.<frac>] into microseconds.
// Leading spaces and tabs are skipped and a sign is allowed. Fraction
// digits past the sixth are dropped, shorter fractions are zero-padded.
// At least one digit, in either part, is required.
func ParseMicros(b []byte) (Micros, int, bool) {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	neg := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}
	seen := false
	var whole int64
	for ; i < len(b) && isDigit(b[i]); i++ {
		whole = accumulate(whole, b[i], false)
		seen = true
	}
	var frac int64
	if i < len(b) && b[i] == '.' {
		i++
		digits := 0
		for ; i < len(b) && isDigit(b[i]); i++ {
			if digits < fracDigits {
				frac = frac*10 + int64(b[i]-'0')
				digits++
			}
			seen = true
		}
		for ; digits < fracDigits; digits++ {
			frac *= 10
		}
	}
	if !seen {
		return 0, 0, false
	}
	us := satAdd(satMul(whole, microsPerSecond), frac)
	if neg {
		us = -us
	}
	return Micros(us), i, true
}

// ParseBandwidth returns the integer following the first "BANDWIDTH=" in
// attrs. The search is a plain substring match, not an attribute-list
// parse: AVERAGE-BANDWIDTH= or the literal inside a quoted value will match
// when it comes first.
func ParseBandwidth(attrs []byte) (int64, bool) {
	i := bytes.Index(attrs, bandwidthAttr)
	if i < 0 {
		return 0, false
	}
	v, _, ok := ParseInt(attrs[i+len(bandwidthAttr):])
	return v, ok
}

// orZero and microsOrZero apply the value-or-default policy of the event
// decoder: a failed parse yields 0.
func orZero(v int64, _ int, ok bool) int64 {
	if !ok {
		return 0
	}
	return v
}

func microsOrZero(v Micros, _ int, ok bool) Micros {
	if !ok {
		return 0
	}
	return v
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// accumulate appends digit c to v, saturating towards the sign of the number.
func accumulate(v int64, c byte, neg bool) int64 {
	d := int64(c - '0')
	if neg {
		if v < (math.MinInt64+d)/10 {
			return math.MinInt64
		}
		return v*10 - d
	}
	if v > (math.MaxInt64-d)/10 {
		return math.MaxInt64
	}
	return v*10 + d
}

// satMul multiplies two non-negative values, saturating at MaxInt64.
func satMul(a, b int64) int64 {
	if b != 0 && a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// satMulSigned multiplies v by a positive factor, saturating in both directions.
func satMulSigned(v, factor int64) int64 {
	if v < 0 {
		if v < math.MinInt64/factor {
			return math.MinInt64
		}
		return v * factor
	}
	return satMul(v, factor)
}

// satAdd adds two non-negative values, saturating at MaxInt64.
func satAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
