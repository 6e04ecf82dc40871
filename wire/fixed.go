package wire

import (
	"math"
	"strconv"
)

// Fixed is a 24_8 fixed-point number. Wayland does not have support
// for floating point numbers in its core protocol and uses these
// instead.
type Fixed int32

// FixedInt returns v as a Fixed. v must fit in 24 bits.
func FixedInt(v int) Fixed {
	return Fixed(v << 8)
}

// FixedFloat returns v rounded to the nearest Fixed.
func FixedFloat(v float64) Fixed {
	return Fixed(int32(math.Float64bits(v + 3<<43)))
}

// Int returns the integer part of f, rounded towards negative
// infinity.
func (f Fixed) Int() int {
	return int(f >> 8)
}

// Float returns f exactly as a float64.
func (f Fixed) Float() float64 {
	// Adding f to the bits of 3<<43 lands it in the low mantissa bits,
	// where one unit is 2^-8.
	bits := uint64((1023+44)<<52+1<<51) + uint64(int64(f))
	return math.Float64frombits(bits) - 3<<43
}

func (f Fixed) String() string {
	return strconv.FormatFloat(f.Float(), 'f', -1, 64)
}
