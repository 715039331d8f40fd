package sigchat

import "errors"

// Sentinel errors for errors.Is() checks
var (
	// ErrKeyGeneration is returned when a resampling loop exhausts its retry
	// budget without finding a valid prime or exponent. Fatal to key setup.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrArithmetic is returned when a modular inverse is requested for
	// non-coprime inputs. It signals a broken key generation invariant.
	ErrArithmetic = errors.New("arithmetic error")

	// ErrEncodingRange is returned when a plaintext byte is not smaller than
	// the modulus. The whole message is rejected.
	ErrEncodingRange = errors.New("plaintext byte out of range for modulus")

	// ErrFraming is returned when a record or message is truncated or its
	// declared length is inconsistent with the available bytes.
	ErrFraming = errors.New("framing error")

	// ErrIntegrityMismatch is returned by Verdict.Err when the recomputed
	// digest differs from the received one.
	ErrIntegrityMismatch = errors.New("integrity mismatch")
)
