// Package prime samples the small primes sigchat keys are built from.
package prime

import (
	"fmt"
	"io"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/utils"
)

// IsPrime checks if a number is prime using trial division.
// This is adequate for the tiny ranges keys are drawn from, not for large primes.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := uint64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// SmallPrime draws uniformly from [params.PrimeMin, params.PrimeMax) until it
// hits a prime. After params.MaxPrimeAttempts misses it returns an error
// wrapping sigchat.ErrKeyGeneration.
func SmallPrime(r io.Reader, params sigchat.Params) (uint64, error) {
	for i := 0; i < params.MaxPrimeAttempts; i++ {
		candidate, err := utils.RandomUint64Range(r, params.PrimeMin, params.PrimeMax)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", sigchat.ErrKeyGeneration, err)
		}
		if IsPrime(candidate) {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("%w: no prime in [%d, %d) after %d attempts",
		sigchat.ErrKeyGeneration, params.PrimeMin, params.PrimeMax, params.MaxPrimeAttempts)
}

// TwoDistinctPrimes returns p != q, both drawn with SmallPrime. The second
// prime is redrawn at most params.MaxDistinctAttempts times.
func TwoDistinctPrimes(r io.Reader, params sigchat.Params) (p, q uint64, err error) {
	p, err = SmallPrime(r, params)
	if err != nil {
		return 0, 0, err
	}
	for i := 0; i < params.MaxDistinctAttempts; i++ {
		q, err = SmallPrime(r, params)
		if err != nil {
			return 0, 0, err
		}
		if q != p {
			return p, q, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no second prime distinct from %d after %d attempts",
		sigchat.ErrKeyGeneration, p, params.MaxDistinctAttempts)
}
