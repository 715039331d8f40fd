// Package envelope frames one encrypted, digest-tagged message.
//
// Wire layout:
//
//	digest(32) | count(4, big-endian) | count × block(8, big-endian)
//
// The digest is the SHA-256 of the plaintext; each block is one RSA-encrypted
// plaintext byte. A receiver always gets the decrypted text back together with
// a verdict, and decides itself what to do with an Invalid message.
package envelope

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/codec"
	"github.com/BackendStack21/sigchat-go/digest"
	"github.com/BackendStack21/sigchat-go/utils"
)

const (
	// HeaderSize is the digest plus the block count.
	HeaderSize = sigchat.DigestSize + 4
	// BlockSize is the encoded size of one ciphertext block.
	BlockSize = 8
	// MaxMessageLen is the largest number of blocks a message may carry.
	MaxMessageLen = utils.MaxMessageLen
)

// Envelope pairs a plaintext digest with its ciphertext.
type Envelope struct {
	Digest     sigchat.Digest
	Ciphertext sigchat.Ciphertext
}

// Seal hashes plaintext and encrypts it under peer.
func Seal(plaintext string, peer sigchat.PublicKey) (*Envelope, error) {
	if err := utils.CheckLength(len(plaintext), MaxMessageLen); err != nil {
		return nil, fmt.Errorf("%w: message of %d bytes: %v", sigchat.ErrFraming, len(plaintext), err)
	}
	c, err := codec.EncryptString(plaintext, peer.E, peer.N)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Digest:     digest.Sum256([]byte(plaintext)),
		Ciphertext: c,
	}, nil
}

// Encode seals plaintext and returns its wire form.
func Encode(plaintext string, peer sigchat.PublicKey) ([]byte, error) {
	env, err := Seal(plaintext, peer)
	if err != nil {
		return nil, err
	}
	return env.MarshalBinary()
}

// EncodedLen returns the size of the wire form of env.
func (env *Envelope) EncodedLen() int {
	return HeaderSize + BlockSize*len(env.Ciphertext)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (env *Envelope) MarshalBinary() ([]byte, error) {
	if err := utils.CheckLength(len(env.Ciphertext), MaxMessageLen); err != nil {
		return nil, fmt.Errorf("%w: %d blocks: %v", sigchat.ErrFraming, len(env.Ciphertext), err)
	}
	buf := make([]byte, env.EncodedLen())
	copy(buf, env.Digest[:])
	binary.BigEndian.PutUint32(buf[sigchat.DigestSize:], uint32(len(env.Ciphertext)))
	off := HeaderSize
	for _, block := range env.Ciphertext {
		binary.BigEndian.PutUint64(buf[off:], block)
		off += BlockSize
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. data must hold
// exactly one message.
func (env *Envelope) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d bytes is shorter than the header", sigchat.ErrFraming, len(data))
	}
	count := binary.BigEndian.Uint32(data[sigchat.DigestSize:HeaderSize])
	if count > MaxMessageLen {
		return fmt.Errorf("%w: declared %d blocks, limit %d", sigchat.ErrFraming, count, MaxMessageLen)
	}
	size, err := payloadSize(count)
	if err != nil {
		return err
	}
	if want := HeaderSize + size; len(data) != want {
		return fmt.Errorf("%w: declared %d blocks needs %d bytes, got %d", sigchat.ErrFraming, count, want, len(data))
	}

	var d sigchat.Digest
	copy(d[:], data[:sigchat.DigestSize])
	c := make(sigchat.Ciphertext, count)
	off := HeaderSize
	for i := range c {
		c[i] = binary.BigEndian.Uint64(data[off:])
		off += BlockSize
	}
	env.Digest, env.Ciphertext = d, c
	return nil
}

// Open decrypts env with own and checks it against its digest. The plaintext
// is returned whatever the verdict.
//
// A message is Invalid when the digests differ, when a block is not reduced
// mod N, or when a block decrypts to a value wider than one byte. The last
// two can only come from a corrupted or forged block, so any single flipped
// bit in the ciphertext is reported.
func Open(env *Envelope, own sigchat.PrivateKey) (string, sigchat.Verdict) {
	values := codec.DecryptBlocks(env.Ciphertext, own.D, own.N)
	canonical := true
	buf := make([]byte, len(values))
	for i, v := range values {
		if env.Ciphertext[i] >= own.N || v > 0xff {
			canonical = false
		}
		buf[i] = byte(v)
	}

	verdict := sigchat.Invalid
	if canonical && digest.Equal(digest.Sum256(buf), env.Digest) {
		verdict = sigchat.Authentic
	}
	return string(buf), verdict
}

// Decode parses one wire message and opens it with own.
func Decode(data []byte, own sigchat.PrivateKey) (string, sigchat.Verdict, error) {
	var env Envelope
	if err := env.UnmarshalBinary(data); err != nil {
		return "", sigchat.Invalid, err
	}
	text, verdict := Open(&env, own)
	return text, verdict, nil
}

// Corrupt alters the first block of env in place so the receiver's check
// fails. It is a demonstration aid. An empty envelope gets its digest
// flipped instead.
func Corrupt(env *Envelope, n uint64) {
	if len(env.Ciphertext) == 0 {
		env.Digest[0] ^= 0xff
		return
	}
	env.Ciphertext[0] = (env.Ciphertext[0] + 1) % n
}

// WriteMessage writes env to w with a single Write call.
func WriteMessage(w io.Writer, env *Envelope) error {
	data, err := env.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// ReadMessage reads one message from r.
//
// A stream that ends cleanly before the first byte returns io.EOF. A stream
// that ends mid-message returns sigchat.ErrFraming wrapping
// io.ErrUnexpectedEOF, and the stream must be abandoned. A message declaring
// more than MaxMessageLen blocks is skipped and reported as an
// *OversizeError (which is sigchat.ErrFraming); the next call reads the
// following message. Declarations too large to skip are fatal.
func ReadMessage(r io.Reader) (*Envelope, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, framingErr("read header", err)
	}

	count := binary.BigEndian.Uint32(header[sigchat.DigestSize:])
	if count > MaxMessageLen {
		payload := int64(count) * BlockSize
		if payload > utils.MaxDrainLen {
			return nil, fmt.Errorf("%w: declared %d blocks, too large to skip", sigchat.ErrFraming, count)
		}
		if _, err := io.CopyN(io.Discard, r, payload); err != nil {
			return nil, framingErr("skip oversized message", err)
		}
		return nil, &OversizeError{Count: count}
	}

	env := &Envelope{Ciphertext: make(sigchat.Ciphertext, count)}
	copy(env.Digest[:], header[:sigchat.DigestSize])

	size, err := payloadSize(count)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, framingErr("read ciphertext", err)
	}
	for i := range env.Ciphertext {
		env.Ciphertext[i] = binary.BigEndian.Uint64(payload[i*BlockSize:])
	}
	return env, nil
}

// payloadSize returns the byte length of count blocks.
func payloadSize(count uint32) (int, error) {
	size, err := utils.SafeMultiply(int(count), BlockSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %d blocks: %v", sigchat.ErrFraming, count, err)
	}
	return size, nil
}

func framingErr(op string, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s: %w", sigchat.ErrFraming, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// OversizeError reports a message that was skipped because it declared too
// many blocks. The stream is still aligned on the next message.
type OversizeError struct {
	Count uint32
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("%v: declared %d blocks, limit %d; message skipped", sigchat.ErrFraming, e.Count, MaxMessageLen)
}

// Unwrap lets errors.Is match sigchat.ErrFraming.
func (e *OversizeError) Unwrap() error { return sigchat.ErrFraming }

// Recoverable reports whether err leaves the stream usable for the next
// ReadMessage call.
func Recoverable(err error) bool {
	var oe *OversizeError
	return errors.As(err, &oe)
}
