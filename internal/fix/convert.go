package fix

import "math"

// UnsignedInt, SignedInt and RealNumber are the three families of Go types
// the numeric string converter below can target, mirroring the C++
// numeric_converter/real_converter template instantiations.
type UnsignedInt interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

type SignedInt interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int
}

type RealNumber interface {
	~float32 | ~float64
}

// digits multiplies-and-adds one ASCII digit at a time into T. It performs
// no bounds checking: on overflow it silently wraps, exactly as the
// original numeric_converter does in a fixed-width integer. The FIX layer
// is expected to have already validated field widths upstream; this is a
// documented characteristic, not a bug.
func digits[T UnsignedInt](b []byte) T {
	var value T
	const ten = 10
	for _, d := range b {
		value = (value * ten) + T(d-'0')
	}
	return value
}

// ParseUnsigned converts an ASCII decimal byte view to an unsigned value.
func ParseUnsigned[T UnsignedInt](b []byte) T {
	return digits[T](b)
}

// ParseSigned converts an ASCII decimal byte view, with an optional
// leading '-', to a signed value.
func ParseSigned[T SignedInt](b []byte) T {
	if len(b) > 0 && b[0] == '-' {
		return -signedDigits[T](b[1:])
	}
	return signedDigits[T](b)
}

func signedDigits[T SignedInt](b []byte) T {
	var value T
	const ten = 10
	for _, d := range b {
		value = (value * ten) + T(d-'0')
	}
	return value
}

// ParseReal converts an ASCII decimal byte view, optionally signed and
// with at most one '.', to a floating value.
func ParseReal[T RealNumber](b []byte) T {
	sign := T(1)
	if len(b) > 0 && b[0] == '-' {
		sign = -sign
		b = b[1:]
	}

	dot := -1
	for i, c := range b {
		if c == '.' {
			dot = i
			break
		}
	}

	var whole, frac []byte
	if dot < 0 {
		whole = b
	} else {
		whole = b[:dot]
		frac = b[dot+1:]
	}

	result := T(digits[uint64](whole))
	if len(frac) > 0 {
		result += T(digits[uint64](frac)) / T(math.Pow(10, float64(len(frac))))
	}
	return sign * result
}

// ParseString returns an independent copy of the byte view.
func ParseString(b []byte) string {
	return string(b)
}
