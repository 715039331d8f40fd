// Package utils provides utility functions for sigchat.
// This file contains safe arithmetic and allocation helpers to prevent
// integer overflow and denial-of-service via large allocations.

package utils

import (
	"errors"
	"math"
	"math/bits"
)

// Maximum allowed lengths for wire data to prevent DoS via large allocations.
const (
	// MaxMessageLen is the maximum number of plaintext bytes (and therefore
	// ciphertext blocks) in one message.
	MaxMessageLen = 1 << 16

	// MaxDrainLen caps how many bytes a reader will discard to skip an
	// oversized message before giving up on the stream.
	MaxDrainLen = 1 << 24
)

var (
	// ErrOverflow indicates an integer overflow occurred.
	ErrOverflow = errors.New("integer overflow")

	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// SafeMultiplyUint64 multiplies two unsigned integers and returns an error if overflow occurs.
func SafeMultiplyUint64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// SafeMultiply multiplies two non-negative integers and returns an error if overflow occurs.
func SafeMultiply(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrInvalidLength
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// CheckPositive validates that value is > 0.
func CheckPositive(value int, name string) error {
	if value <= 0 {
		return errors.New(name + " must be positive")
	}
	return nil
}
