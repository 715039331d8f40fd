// Package codec maps text to textbook RSA blocks, one block per byte.
//
// Encryption is deterministic and unpadded: equal bytes under the same key
// always produce equal blocks.
package codec

import (
	"fmt"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/arith"
)

// Encrypt computes m^E mod N.
func Encrypt(m uint64, pub sigchat.PublicKey) uint64 {
	return arith.ModExp(m, pub.E, pub.N)
}

// Decrypt computes c^D mod N.
func Decrypt(c uint64, priv sigchat.PrivateKey) uint64 {
	return arith.ModExp(c, priv.D, priv.N)
}

// EncryptString encrypts each byte of text under (e, n). If any byte is not
// smaller than n the whole message is rejected with sigchat.ErrEncodingRange.
func EncryptString(text string, e, n uint64) (sigchat.Ciphertext, error) {
	for i := 0; i < len(text); i++ {
		if uint64(text[i]) >= n {
			return nil, fmt.Errorf("%w: byte %d at offset %d, modulus %d", sigchat.ErrEncodingRange, text[i], i, n)
		}
	}

	out := make(sigchat.Ciphertext, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = arith.ModExp(uint64(text[i]), e, n)
	}
	return out, nil
}

// DecryptBlocks decrypts every block under (d, n) without interpreting the result.
func DecryptBlocks(c sigchat.Ciphertext, d, n uint64) []uint64 {
	out := make([]uint64, len(c))
	for i, block := range c {
		out[i] = arith.ModExp(block, d, n)
	}
	return out
}

// DecryptString decrypts c and keeps the low byte of every block. It never
// fails; a wrong key or tampered block simply yields different bytes.
func DecryptString(c sigchat.Ciphertext, d, n uint64) string {
	values := DecryptBlocks(c, d, n)
	buf := make([]byte, len(values))
	for i, v := range values {
		buf[i] = byte(v)
	}
	return string(buf)
}
