package arith

import (
	"errors"
	"math/big"
	"testing"

	sigchat "github.com/BackendStack21/sigchat-go"
)

func TestGCD(t *testing.T) {
	tests := []struct {
		a, b, want uint64
	}{
		{0, 0, 0},
		{7, 0, 7},
		{0, 7, 7},
		{12, 18, 6},
		{17, 5, 1},
		{3120, 17, 1},
		{1 << 40, 1 << 20, 1 << 20},
	}
	for _, tt := range tests {
		if got := GCD(tt.a, tt.b); got != tt.want {
			t.Errorf("GCD(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestExtendedGCD_Identity(t *testing.T) {
	for a := int64(0); a < 60; a++ {
		for b := int64(0); b < 60; b++ {
			g, x, y := ExtendedGCD(a, b)
			if a*x+b*y != g {
				t.Fatalf("ExtendedGCD(%d, %d): %d*%d + %d*%d != %d", a, b, a, x, b, y, g)
			}
			if uint64(g) != GCD(uint64(a), uint64(b)) {
				t.Fatalf("ExtendedGCD(%d, %d) gcd %d, GCD says %d", a, b, g, GCD(uint64(a), uint64(b)))
			}
		}
	}
}

func TestModInverse(t *testing.T) {
	d, err := ModInverse(17, 3120)
	if err != nil {
		t.Fatalf("ModInverse failed: %v", err)
	}
	if d != 2753 {
		t.Errorf("ModInverse(17, 3120) = %d, want 2753", d)
	}

	for tot := uint64(2); tot < 200; tot++ {
		for e := uint64(1); e < tot; e++ {
			d, err := ModInverse(e, tot)
			if GCD(e, tot) != 1 {
				if !errors.Is(err, sigchat.ErrArithmetic) {
					t.Fatalf("ModInverse(%d, %d) err = %v, want ErrArithmetic", e, tot, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("ModInverse(%d, %d) failed: %v", e, tot, err)
			}
			if d >= tot || (e*d)%tot != 1 {
				t.Fatalf("ModInverse(%d, %d) = %d is not an inverse", e, tot, d)
			}
		}
	}
}

func TestModInverse_SmallModulus(t *testing.T) {
	for _, tot := range []uint64{0, 1} {
		if _, err := ModInverse(3, tot); !errors.Is(err, sigchat.ErrArithmetic) {
			t.Errorf("ModInverse(3, %d) err = %v, want ErrArithmetic", tot, err)
		}
	}
}

func TestModInverse_LargeModulus(t *testing.T) {
	tot := uint64(1<<63 + 25) // odd, larger than MaxInt64
	e := uint64(65537)
	d, err := ModInverse(e, tot)
	if err != nil {
		t.Fatalf("ModInverse failed: %v", err)
	}
	if MulMod(e, d, tot) != 1 {
		t.Errorf("ModInverse(%d, %d) = %d is not an inverse", e, tot, d)
	}
}

func TestMulMod(t *testing.T) {
	m := ^uint64(0) - 58 // largest 64-bit prime
	a, b := m-1, m-2
	want := new(big.Int).Mod(
		new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b)),
		new(big.Int).SetUint64(m),
	)
	if got := MulMod(a, b, m); got != want.Uint64() {
		t.Errorf("MulMod = %d, want %s", got, want)
	}
}

func TestModExp(t *testing.T) {
	tests := []struct {
		base, exp, m, want uint64
	}{
		{4, 13, 497, 445},
		{2, 10, 1000, 24},
		{65, 17, 3233, 2790},
		{2790, 2753, 3233, 65},
		{5, 0, 7, 1},
		{0, 0, 7, 1},
		{0, 5, 7, 0},
		{123, 456, 1, 0},
	}
	for _, tt := range tests {
		if got := ModExp(tt.base, tt.exp, tt.m); got != tt.want {
			t.Errorf("ModExp(%d, %d, %d) = %d, want %d", tt.base, tt.exp, tt.m, got, tt.want)
		}
	}
}

func TestModExp_NoOverflow(t *testing.T) {
	m := uint64(1)<<63 + 29
	base := m - 1
	for _, exp := range []uint64{2, 3, 1000, ^uint64(0)} {
		want := new(big.Int).Exp(new(big.Int).SetUint64(base), new(big.Int).SetUint64(exp), new(big.Int).SetUint64(m))
		if got := ModExp(base, exp, m); got != want.Uint64() {
			t.Errorf("ModExp(m-1, %d, m) = %d, want %s", exp, got, want)
		}
	}
}

func TestModExp_PanicZero(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for zero modulus")
		}
	}()
	ModExp(2, 3, 0)
}
