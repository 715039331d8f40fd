// Package sigchat implements end-to-end encrypted, integrity-checked text messaging
// over a reliable byte stream.
//
// Each connection endpoint generates a textbook RSA keypair from a deliberately tiny
// prime range, the endpoints swap public keys once, and every message travels as a
// SHA-256 digest followed by one RSA block per plaintext byte. The receiver decrypts,
// recomputes the digest and flags the message AUTHENTIC or INVALID.
//
// WARNING: This is a teaching construction. The keys are trivially breakable, the key
// exchange is trust-on-first-use with no authentication, and the block cipher is
// unpadded and deterministic. DO NOT use it to protect anything.
package sigchat

// Version of the sigchat Go implementation.
const Version = "0.3.0"

// API summary:
//
// Arithmetic:
//   - arith.GCD / arith.ExtendedGCD / arith.ModInverse / arith.ModExp
//
// Key generation:
//   - keygen.GenerateKeyPair(params) - Fresh keypair from crypto/rand
//   - keygen.GenerateKeyPairFromSeed(params, seed) - Deterministic keypair (SHAKE256 stream)
//
// Messages:
//   - codec.EncryptString / codec.DecryptString - One RSA block per byte
//   - digest.Sum256 - SHA-256
//   - envelope.Encode(plaintext, peer) / envelope.Decode(data, own)
//
// Connection:
//   - handshake.Exchange(rw, role, own) - One-time public key swap
//   - session.Establish / session.Serve / session.Dial
//
// Parameters:
//   - core.GetParams(profile) - Key generation parameters
//   - core.DefaultParams - Primes in [10, 100)
