// Package core provides parameter sets and validation for sigchat key generation.
package core

import (
	"errors"
	"fmt"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/utils"
)

// MaxPrime bounds PrimeMax so that every modulus stays below 2^32 and every
// plaintext block fits comfortably in a uint64.
const MaxPrime = 1 << 16

// DefaultParams draws both primes from [10, 100). The resulting moduli lie
// between 143 and 8633, so printable ASCII always fits in one block.
var DefaultParams = sigchat.Params{
	PrimeMin:            10,
	PrimeMax:            100,
	MaxPrimeAttempts:    1000,
	MaxExponentAttempts: 1000,
	MaxDistinctAttempts: 100,
}

// TestParams keeps the default range but fails fast. Useful in tests that
// exercise the exhaustion paths.
var TestParams = sigchat.Params{
	PrimeMin:            10,
	PrimeMax:            100,
	MaxPrimeAttempts:    64,
	MaxExponentAttempts: 64,
	MaxDistinctAttempts: 16,
}

// GetParams returns the parameter set for the given profile.
func GetParams(profile sigchat.Profile) (sigchat.Params, error) {
	switch profile {
	case sigchat.ProfileDefault, "":
		return DefaultParams, nil
	case sigchat.ProfileTest:
		return TestParams, nil
	default:
		return sigchat.Params{}, fmt.Errorf("unknown profile: %s", profile)
	}
}

// ValidateParams validates the parameter set for consistency.
// It does not check that the range holds two primes; exhausting the retry
// budgets reports that case as sigchat.ErrKeyGeneration.
func ValidateParams(params sigchat.Params) error {
	if params.PrimeMin < 2 {
		return errors.New("prime-min must be at least 2")
	}
	if params.PrimeMax <= params.PrimeMin {
		return errors.New("prime range must not be empty")
	}
	if params.PrimeMax > MaxPrime {
		return fmt.Errorf("prime-max must not exceed %d", MaxPrime)
	}
	if err := utils.CheckPositive(params.MaxPrimeAttempts, "max-prime-attempts"); err != nil {
		return err
	}
	if err := utils.CheckPositive(params.MaxExponentAttempts, "max-exponent-attempts"); err != nil {
		return err
	}
	return utils.CheckPositive(params.MaxDistinctAttempts, "max-distinct-attempts")
}
