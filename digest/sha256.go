// Package digest implements SHA-256 (FIPS 180-4) without crypto/sha256, plus
// the small helpers sigchat uses to compare and display digests.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"io"
	"math/bits"
	"os"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/utils"
)

// BlockSize is the SHA-256 block size in bytes.
const BlockSize = 64

var initState = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

type state struct {
	h   [8]uint32
	buf [BlockSize]byte
	nx  int
	len uint64
}

// New returns a streaming SHA-256 hash.Hash.
func New() hash.Hash {
	s := new(state)
	s.Reset()
	return s
}

func (s *state) Reset() {
	s.h = initState
	s.nx = 0
	s.len = 0
}

func (s *state) Size() int { return sigchat.DigestSize }

func (s *state) BlockSize() int { return BlockSize }

func (s *state) Write(p []byte) (int, error) {
	n := len(p)
	s.len += uint64(n)
	if s.nx > 0 {
		c := copy(s.buf[s.nx:], p)
		s.nx += c
		p = p[c:]
		if s.nx == BlockSize {
			compress(&s.h, s.buf[:])
			s.nx = 0
		}
	}
	for len(p) >= BlockSize {
		compress(&s.h, p[:BlockSize])
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		s.nx = copy(s.buf[:], p)
	}
	return n, nil
}

// Sum appends the digest of the data written so far to b without changing
// the hash state.
func (s *state) Sum(b []byte) []byte {
	d := s.checkSum()
	return append(b, d[:]...)
}

func (s *state) checkSum() sigchat.Digest {
	c := *s
	bitLen := c.len << 3

	// 0x80, zeros up to 56 mod 64, then the 64-bit big-endian bit length.
	var pad [BlockSize + 8]byte
	pad[0] = 0x80
	padLen := 56 - int(c.len%BlockSize)
	if padLen <= 0 {
		padLen += BlockSize
	}
	binary.BigEndian.PutUint64(pad[padLen:], bitLen)
	c.Write(pad[:padLen+8])
	if c.nx != 0 {
		panic("digest: padding did not end on a block boundary")
	}

	var out sigchat.Digest
	for i, v := range c.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func compress(h *[8]uint32, block []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}
	for i := 16; i < 64; i++ {
		s0 := bits.RotateLeft32(w[i-15], -7) ^ bits.RotateLeft32(w[i-15], -18) ^ (w[i-15] >> 3)
		s1 := bits.RotateLeft32(w[i-2], -17) ^ bits.RotateLeft32(w[i-2], -19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	for i := 0; i < 64; i++ {
		S1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
		ch := (e & f) ^ (^e & g)
		t1 := hh + S1 + ch + k[i] + w[i]
		S0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := S0 + maj

		hh, g, f, e, d, c, b, a = g, f, e, d+t1, c, b, a, t1+t2
	}

	h[0] += a
	h[1] += b
	h[2] += c
	h[3] += d
	h[4] += e
	h[5] += f
	h[6] += g
	h[7] += hh
}

// Sum256 returns the SHA-256 digest of msg.
func Sum256(msg []byte) sigchat.Digest {
	var s state
	s.Reset()
	s.Write(msg)
	return s.checkSum()
}

// SumReader digests everything read from r until EOF.
func SumReader(r io.Reader) (sigchat.Digest, error) {
	h := New()
	if _, err := io.Copy(h, r); err != nil {
		return sigchat.Digest{}, err
	}
	var d sigchat.Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

// SumFile digests the contents of the file at path.
func SumFile(path string) (sigchat.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return sigchat.Digest{}, err
	}
	defer f.Close()
	return SumReader(f)
}

// Equal compares two digests in constant time.
func Equal(a, b sigchat.Digest) bool {
	return utils.ConstantTimeEqual(a[:], b[:])
}

// Hex returns the lowercase hexadecimal form of d.
func Hex(d sigchat.Digest) string {
	return hex.EncodeToString(d[:])
}
