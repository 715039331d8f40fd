// Package handshake exchanges public keys once at the start of a connection.
//
// Each side sends a single 16-byte record:
//
//	e(8, big-endian) | n(8, big-endian)
//
// The server writes its record first and then reads; the client reads first
// and then writes, so neither side can block waiting on the other. The peer's
// key is accepted as-is: there is no authentication of the exchange.
package handshake

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/utils"
)

// RecordSize is the size of a serialized public key.
const RecordSize = 16

// DomainFingerprint separates key fingerprints from other SHA3 uses.
const DomainFingerprint = "sigchat-fingerprint-v1"

// Role selects the side of the exchange and therefore its ordering.
type Role int

const (
	// RoleServer writes its key first.
	RoleServer Role = iota
	// RoleClient reads the peer's key first.
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// MarshalPublicKey serializes pub into a RecordSize-byte record.
func MarshalPublicKey(pub sigchat.PublicKey) []byte {
	buf := make([]byte, RecordSize)
	binary.BigEndian.PutUint64(buf[0:8], pub.E)
	binary.BigEndian.PutUint64(buf[8:16], pub.N)
	return buf
}

// UnmarshalPublicKey parses a record produced by MarshalPublicKey.
// Records of the wrong length or holding an unusable key fail with
// sigchat.ErrFraming.
func UnmarshalPublicKey(data []byte) (sigchat.PublicKey, error) {
	if len(data) != RecordSize {
		return sigchat.PublicKey{}, fmt.Errorf("%w: public key record is %d bytes, want %d",
			sigchat.ErrFraming, len(data), RecordSize)
	}
	pub := sigchat.PublicKey{
		E: binary.BigEndian.Uint64(data[0:8]),
		N: binary.BigEndian.Uint64(data[8:16]),
	}
	if pub.N < 2 {
		return sigchat.PublicKey{}, fmt.Errorf("%w: modulus %d too small", sigchat.ErrFraming, pub.N)
	}
	if pub.E < 2 || pub.E >= pub.N {
		return sigchat.PublicKey{}, fmt.Errorf("%w: exponent %d out of range for modulus %d",
			sigchat.ErrFraming, pub.E, pub.N)
	}
	return pub, nil
}

// WritePublicKey writes the record for pub to w.
func WritePublicKey(w io.Writer, pub sigchat.PublicKey) error {
	if _, err := w.Write(MarshalPublicKey(pub)); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}
	return nil
}

// ReadPublicKey reads exactly one record from r. A stream that ends before
// the record is complete fails with sigchat.ErrFraming.
func ReadPublicKey(r io.Reader) (sigchat.PublicKey, error) {
	var buf [RecordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return sigchat.PublicKey{}, fmt.Errorf("%w: read public key: %w", sigchat.ErrFraming, err)
		}
		return sigchat.PublicKey{}, fmt.Errorf("read public key: %w", err)
	}
	return UnmarshalPublicKey(buf[:])
}

// Exchange sends own and receives the peer's key in the order dictated by role.
func Exchange(rw io.ReadWriter, role Role, own sigchat.PublicKey) (sigchat.PublicKey, error) {
	switch role {
	case RoleServer:
		if err := WritePublicKey(rw, own); err != nil {
			return sigchat.PublicKey{}, err
		}
		return ReadPublicKey(rw)
	case RoleClient:
		peer, err := ReadPublicKey(rw)
		if err != nil {
			return sigchat.PublicKey{}, err
		}
		if err := WritePublicKey(rw, own); err != nil {
			return sigchat.PublicKey{}, err
		}
		return peer, nil
	default:
		return sigchat.PublicKey{}, fmt.Errorf("unknown handshake role %d", int(role))
	}
}

// Fingerprint returns a short SHA3-256 based identifier for pub, suitable for
// logs and for a human to compare out of band.
func Fingerprint(pub sigchat.PublicKey) string {
	sum := utils.HashWithDomain(DomainFingerprint, MarshalPublicKey(pub))
	return hex.EncodeToString(sum[:8])
}
