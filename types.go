package sigchat

// =============================================================================
// Key Types
// =============================================================================

// PublicKey is the textbook RSA public key (e, n).
type PublicKey struct {
	E uint64 `json:"e"` // Public exponent, coprime with the totient
	N uint64 `json:"n"` // Modulus p*q
}

// PrivateKey is the textbook RSA private key (d, n).
type PrivateKey struct {
	D uint64 `json:"d"` // Modular inverse of E mod (p-1)(q-1)
	N uint64 `json:"n"` // Modulus p*q
}

// KeyPair contains both halves of an endpoint's keys.
// A KeyPair is generated once per connection endpoint and never mutated.
type KeyPair struct {
	PublicKey  PublicKey  `json:"public_key"`
	PrivateKey PrivateKey `json:"private_key"`
}

// =============================================================================
// Parameter Types
// =============================================================================

// Profile names a predefined parameter set.
type Profile string

const (
	// ProfileDefault draws primes from [10, 100).
	ProfileDefault Profile = "default"
	// ProfileTest uses the default range with smaller retry budgets.
	ProfileTest Profile = "test"
)

// Params controls prime sampling and the retry budgets of key generation.
// Primes are drawn uniformly from [PrimeMin, PrimeMax).
type Params struct {
	PrimeMin uint64 `json:"prime_min" yaml:"prime-min"`
	PrimeMax uint64 `json:"prime_max" yaml:"prime-max"`

	MaxPrimeAttempts    int `json:"max_prime_attempts" yaml:"max-prime-attempts"`
	MaxExponentAttempts int `json:"max_exponent_attempts" yaml:"max-exponent-attempts"`
	MaxDistinctAttempts int `json:"max_distinct_attempts" yaml:"max-distinct-attempts"`
}

// =============================================================================
// Message Types
// =============================================================================

// DigestSize is the size of a SHA-256 digest in bytes.
const DigestSize = 32

// Digest is a SHA-256 digest.
type Digest [DigestSize]byte

// Ciphertext holds one RSA block per plaintext byte, each in [0, n).
type Ciphertext []uint64

// Verdict is the result of checking a received message against its digest.
type Verdict int

const (
	// Invalid means the recomputed digest did not match the received one.
	Invalid Verdict = iota
	// Authentic means the recomputed digest matched.
	Authentic
)

func (v Verdict) String() string {
	if v == Authentic {
		return "AUTHENTIC"
	}
	return "INVALID"
}

// Err returns ErrIntegrityMismatch for an Invalid verdict and nil otherwise.
func (v Verdict) Err() error {
	if v == Authentic {
		return nil
	}
	return ErrIntegrityMismatch
}
