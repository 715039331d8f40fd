package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"io"
	"math/bits"
	"runtime"
)

var RandReader io.Reader = rand.Reader

// SecureRandomBytes generates n cryptographically secure random bytes.
// It uses crypto/rand, which relies on the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomUint64 draws a uniform integer in [0, max) from r.
// It uses rejection sampling on a bit mask to avoid modulo bias.
func RandomUint64(r io.Reader, max uint64) (uint64, error) {
	if max == 0 {
		return 0, errors.New("max must be positive")
	}
	if max == 1 {
		return 0, nil
	}

	bitsNeeded := bits.Len64(max - 1)
	bytesNeeded := (bitsNeeded + 7) / 8
	mask := uint64(1)<<bitsNeeded - 1
	if bitsNeeded == 64 {
		mask = ^uint64(0)
	}

	var buf [8]byte
	for {
		if _, err := io.ReadFull(r, buf[8-bytesNeeded:]); err != nil {
			return 0, err
		}
		value := binary.BigEndian.Uint64(buf[:]) & mask
		if value < max {
			return value, nil
		}
	}
}

// RandomUint64Range draws a uniform integer in [min, max) from r.
func RandomUint64Range(r io.Reader, min, max uint64) (uint64, error) {
	if max <= min {
		return 0, errors.New("empty range")
	}
	v, err := RandomUint64(r, max-min)
	if err != nil {
		return 0, err
	}
	return min + v, nil
}

// ValidateSeedEntropy checks if a seed has sufficient entropy.
// It performs basic statistical tests to reject obviously weak seeds (e.g., all zeros, sequential).
// This is a sanity check, not a rigorous randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < 32 {
		return errors.New("seed must be at least 32 bytes")
	}

	first := seed[0]
	allSame := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != first {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("seed has low entropy: all bytes are identical")
	}

	isAscending, isDescending := true, true
	for i := 1; i < len(seed); i++ {
		if seed[i] != seed[i-1]+1 {
			isAscending = false
		}
		if seed[i] != seed[i-1]-1 {
			isDescending = false
		}
		if !isAscending && !isDescending {
			break
		}
	}
	if isAscending || isDescending {
		return errors.New("seed has low entropy: sequential pattern detected")
	}

	return nil
}

// ConstantTimeEqual compares two byte slices in constant time.
// It returns true if the slices are equal, false otherwise.
// This function leaks only the length of the slices.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites a byte slice with zeros.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
