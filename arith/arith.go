// Package arith implements the modular arithmetic behind sigchat's textbook RSA:
// greatest common divisors, modular inverses and modular exponentiation.
//
// All loops are iterative and every intermediate product is reduced through a
// 128-bit multiply, so no operand in [0, m) can overflow.
package arith

import (
	"fmt"
	"math/bits"

	sigchat "github.com/BackendStack21/sigchat-go"
)

// GCD returns the greatest common divisor of a and b. GCD(a, 0) = a.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ExtendedGCD returns g = gcd(a, b) together with Bézout coefficients x, y
// such that a*x + b*y = g.
func ExtendedGCD(a, b int64) (g, x, y int64) {
	oldR, r := a, b
	oldX, x := int64(1), int64(0)
	oldY, y := int64(0), int64(1)

	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldX, x = x, oldX-q*x
		oldY, y = y, oldY-q*y
	}
	return oldR, oldX, oldY
}

// ModInverse returns d in [0, tot) with e*d ≡ 1 (mod tot).
// The error wraps sigchat.ErrArithmetic when tot < 2 or gcd(e, tot) != 1.
func ModInverse(e, tot uint64) (uint64, error) {
	if tot < 2 {
		return 0, fmt.Errorf("%w: modulus %d too small for an inverse", sigchat.ErrArithmetic, tot)
	}

	// Coefficients are tracked mod tot so the loop stays in uint64.
	oldR, r := e%tot, tot
	oldS, s := uint64(1), uint64(0)
	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, subMod(oldS, MulMod(q%tot, s, tot), tot)
	}
	if oldR != 1 {
		return 0, fmt.Errorf("%w: %d has no inverse mod %d (gcd %d)", sigchat.ErrArithmetic, e, tot, oldR)
	}
	return oldS % tot, nil
}

// subMod returns (a - b) mod m for a, b in [0, m).
func subMod(a, b, m uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + (m - b)
}

// MulMod returns (a * b) mod m using the full 128-bit product.
// Panics if m is zero.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a%m, b%m)
	_, rem := bits.Div64(hi, lo, m)
	return rem
}

// ModExp computes base^exp mod m by square-and-multiply, scanning the
// exponent from the least significant bit.
// ModExp(_, _, 1) is 0. Panics if m is zero.
func ModExp(base, exp, m uint64) uint64 {
	if m == 0 {
		panic("arith: zero modulus")
	}
	if m == 1 {
		return 0
	}

	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, m)
		}
		base = MulMod(base, base, m)
		exp >>= 1
	}
	return result
}
