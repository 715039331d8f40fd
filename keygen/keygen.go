// Package keygen generates textbook RSA keypairs from small primes.
package keygen

import (
	"errors"
	"fmt"
	"io"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/arith"
	"github.com/BackendStack21/sigchat-go/core"
	"github.com/BackendStack21/sigchat-go/prime"
	"github.com/BackendStack21/sigchat-go/utils"
)

// DomainKeyGen separates the SHAKE256 stream used for seeded key generation.
const DomainKeyGen = "sigchat-keygen-v1"

// Keys holds the ephemeral material behind a keypair. It is returned for
// composition and tests only; sessions keep the KeyPair and drop the rest.
type Keys struct {
	P, Q uint64
	N    uint64 // P*Q
	Tot  uint64 // (P-1)*(Q-1)
}

// GenerateKeys picks two distinct primes and derives the modulus and totient.
func GenerateKeys(r io.Reader, params sigchat.Params) (Keys, error) {
	p, q, err := prime.TwoDistinctPrimes(r, params)
	if err != nil {
		return Keys{}, err
	}
	n, err := utils.SafeMultiplyUint64(p, q)
	if err != nil {
		return Keys{}, fmt.Errorf("%w: modulus %d*%d: %v", sigchat.ErrKeyGeneration, p, q, err)
	}
	return Keys{P: p, Q: q, N: n, Tot: (p - 1) * (q - 1)}, nil
}

// ChooseRandomE draws a public exponent uniformly from [2, tot) until it is
// coprime with tot. It gives up after maxAttempts draws.
func ChooseRandomE(r io.Reader, tot uint64, maxAttempts int) (uint64, error) {
	if tot <= 2 {
		return 0, fmt.Errorf("%w: totient %d leaves no exponent candidates", sigchat.ErrKeyGeneration, tot)
	}
	for i := 0; i < maxAttempts; i++ {
		e, err := utils.RandomUint64Range(r, 2, tot)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", sigchat.ErrKeyGeneration, err)
		}
		if arith.GCD(e, tot) == 1 {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: no exponent coprime with %d after %d attempts",
		sigchat.ErrKeyGeneration, tot, maxAttempts)
}

// GenerateKeyPair generates a fresh keypair from the system CSPRNG.
func GenerateKeyPair(params sigchat.Params) (*sigchat.KeyPair, error) {
	return GenerateKeyPairFrom(utils.RandReader, params)
}

// GenerateKeyPairFromSeed deterministically derives a keypair from seed.
// The seed must be at least 32 bytes and pass utils.ValidateSeedEntropy.
func GenerateKeyPairFromSeed(params sigchat.Params, seed []byte) (*sigchat.KeyPair, error) {
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return GenerateKeyPairFrom(utils.NewShakeReader(DomainKeyGen, seed), params)
}

// GenerateKeyPairFrom generates a keypair using r as its only source of randomness.
func GenerateKeyPairFrom(r io.Reader, params sigchat.Params) (*sigchat.KeyPair, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, fmt.Errorf("%w: %v", sigchat.ErrKeyGeneration, err)
	}

	keys, err := GenerateKeys(r, params)
	if err != nil {
		return nil, err
	}
	e, err := ChooseRandomE(r, keys.Tot, params.MaxExponentAttempts)
	if err != nil {
		return nil, err
	}
	// e is coprime with Tot by construction, so this only fails on a bug.
	d, err := arith.ModInverse(e, keys.Tot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sigchat.ErrKeyGeneration, err)
	}

	return &sigchat.KeyPair{
		PublicKey:  sigchat.PublicKey{E: e, N: keys.N},
		PrivateKey: sigchat.PrivateKey{D: d, N: keys.N},
	}, nil
}

// Validate checks the structural invariants of kp and round-trips a few
// probe values through it.
func Validate(kp *sigchat.KeyPair) error {
	if kp == nil {
		return errors.New("nil keypair")
	}
	pub, priv := kp.PublicKey, kp.PrivateKey
	if pub.N < 2 {
		return fmt.Errorf("modulus %d too small", pub.N)
	}
	if pub.N != priv.N {
		return fmt.Errorf("public modulus %d differs from private modulus %d", pub.N, priv.N)
	}
	if pub.E < 2 || pub.E >= pub.N {
		return fmt.Errorf("public exponent %d out of range for modulus %d", pub.E, pub.N)
	}
	if priv.D == 0 || priv.D >= priv.N {
		return fmt.Errorf("private exponent %d out of range for modulus %d", priv.D, priv.N)
	}
	for _, m := range []uint64{0, 1, 2, pub.N / 2, pub.N - 1} {
		c := arith.ModExp(m, pub.E, pub.N)
		if got := arith.ModExp(c, priv.D, priv.N); got != m {
			return fmt.Errorf("round trip of %d produced %d", m, got)
		}
	}
	return nil
}
