package codec

import (
	"strings"
	"testing"

	sigchat "github.com/BackendStack21/sigchat-go"
	"github.com/BackendStack21/sigchat-go/core"
	"github.com/BackendStack21/sigchat-go/keygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 61*53 = 3233, tot 3120, e=17, d=2753.
var (
	classicPub  = sigchat.PublicKey{E: 17, N: 3233}
	classicPriv = sigchat.PrivateKey{D: 2753, N: 3233}
)

func TestEncryptDecrypt(t *testing.T) {
	assert.Equal(t, uint64(2790), Encrypt(65, classicPub))
	assert.Equal(t, uint64(65), Decrypt(2790, classicPriv))

	for m := uint64(0); m < classicPub.N; m++ {
		require.Equal(t, m, Decrypt(Encrypt(m, classicPub), classicPriv), "m=%d", m)
	}
}

func TestEncryptString_RoundTrip(t *testing.T) {
	kp, err := keygen.GenerateKeyPair(core.DefaultParams)
	require.NoError(t, err)
	pub, priv := kp.PublicKey, kp.PrivateKey

	inputs := []string{
		"",
		"a",
		"hello, world",
		"The quick brown fox jumps over the lazy dog.",
		strings.Repeat("~", 500),
	}
	for _, in := range inputs {
		c, err := EncryptString(in, pub.E, pub.N)
		require.NoError(t, err)
		require.Len(t, c, len(in))
		for _, block := range c {
			require.Less(t, block, pub.N)
		}
		assert.Equal(t, in, DecryptString(c, priv.D, priv.N))
	}
}

func TestEncryptString_Deterministic(t *testing.T) {
	c, err := EncryptString("aa", classicPub.E, classicPub.N)
	require.NoError(t, err)
	assert.Equal(t, c[0], c[1])
}

func TestEncryptString_Empty(t *testing.T) {
	c, err := EncryptString("", classicPub.E, classicPub.N)
	require.NoError(t, err)
	assert.Empty(t, c)
	assert.Equal(t, "", DecryptString(c, classicPriv.D, classicPriv.N))
}

func TestEncryptString_ByteOutOfRange(t *testing.T) {
	// 11*13 = 143: printable ASCII fits, Latin-1 high bytes do not.
	const n = 143
	_, err := EncryptString("plain ascii", 7, n)
	require.NoError(t, err)

	c, err := EncryptString("caf\xe9", 7, n)
	assert.ErrorIs(t, err, sigchat.ErrEncodingRange)
	assert.Nil(t, c)

	_, err = EncryptString(string([]byte{n}), 7, n)
	assert.ErrorIs(t, err, sigchat.ErrEncodingRange)
}

func TestDecryptString_Truncates(t *testing.T) {
	// A block that decrypts above 255 keeps only its low byte.
	c := sigchat.Ciphertext{Encrypt(256+'A', classicPub)}
	assert.Equal(t, []uint64{256 + 'A'}, DecryptBlocks(c, classicPriv.D, classicPriv.N))
	assert.Equal(t, "A", DecryptString(c, classicPriv.D, classicPriv.N))
}

func TestDecryptString_WrongKey(t *testing.T) {
	c, err := EncryptString("secret", classicPub.E, classicPub.N)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", DecryptString(c, 7, classicPriv.N))
}
