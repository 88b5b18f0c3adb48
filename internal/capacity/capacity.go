// Package capacity holds the power-of-two sizing rule shared by the growable containers.
package capacity

import "math/bits"

// Max is the largest power of two an int can hold.
const Max = 1 << (bits.UintSize - 2)

// NextPow2 returns the least power of two >= n. NextPow2(0) is 1.
// It returns -1 when n > Max.
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	if n > Max {
		return -1
	}
	return 1 << bits.Len(uint(n-1))
}

// For returns the capacity for a request of n slots given a floor of base.
// Requests at or below base yield base; anything above rounds up to the next power of two.
// It returns -1 when the rounded size does not fit in an int.
func For(n, base int) int {
	if n <= base {
		return base
	}
	return NextPow2(n)
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
