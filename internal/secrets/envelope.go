package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
)

// Envelope layout constants.
const (
	// EnvelopeVersion is the current on-disk format version.
	EnvelopeVersion = 0x01

	// NonceSize is the AES-GCM nonce size.
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag size.
	TagSize = 16

	// HeaderSize is version(1) + nonce(12) + tag(16).
	HeaderSize = 1 + NonceSize + TagSize
)

// Envelope is the on-disk ciphertext container:
//
//	[version:1][nonce:12][tag:16][ciphertext:N]
type Envelope struct {
	Version    byte
	Nonce      [NonceSize]byte
	Tag        [TagSize]byte
	Ciphertext []byte
}

// MarshalBinary serializes the envelope.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, HeaderSize+len(e.Ciphertext))
	out = append(out, e.Version)
	out = append(out, e.Nonce[:]...)
	out = append(out, e.Tag[:]...)
	out = append(out, e.Ciphertext...)
	return out, nil
}

// ParseEnvelope parses serialized envelope bytes. The returned envelope does
// not alias data.
func ParseEnvelope(data []byte) (*Envelope, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", kerrors.ErrMalformedEnvelope, len(data), HeaderSize)
	}
	if data[0] != EnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", kerrors.ErrMalformedEnvelope, data[0])
	}

	e := &Envelope{Version: data[0]}
	offset := 1
	copy(e.Nonce[:], data[offset:offset+NonceSize])
	offset += NonceSize
	copy(e.Tag[:], data[offset:offset+TagSize])
	offset += TagSize
	e.Ciphertext = append([]byte(nil), data[offset:]...)

	return e, nil
}

// Seal encrypts plaintext under key with a fresh random nonce.
func Seal(plaintext []byte, key Key) (*Envelope, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	e := &Envelope{Version: EnvelopeVersion}
	if _, err := io.ReadFull(rand.Reader, e.Nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	// GCM appends the tag to the ciphertext; the envelope stores it first.
	sealed := gcm.Seal(nil, e.Nonce[:], plaintext, nil)
	split := len(sealed) - TagSize
	copy(e.Tag[:], sealed[split:])
	e.Ciphertext = sealed[:split]

	return e, nil
}

// Open verifies and decrypts the envelope under key. Any tag mismatch is
// reported as ErrAuthenticationFailed without further detail.
func Open(e *Envelope, key Key) ([]byte, error) {
	if e.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", kerrors.ErrMalformedEnvelope, e.Version)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(e.Ciphertext)+TagSize)
	sealed = append(sealed, e.Ciphertext...)
	sealed = append(sealed, e.Tag[:]...)

	plaintext, err := gcm.Open(nil, e.Nonce[:], sealed, nil)
	if err != nil {
		return nil, kerrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// EncryptBytes seals plaintext and serializes the envelope.
func EncryptBytes(plaintext []byte, key Key) ([]byte, error) {
	e, err := Seal(plaintext, key)
	if err != nil {
		return nil, err
	}
	return e.MarshalBinary()
}

// DecryptBytes parses and opens a serialized envelope.
func DecryptBytes(data []byte, key Key) ([]byte, error) {
	e, err := ParseEnvelope(data)
	if err != nil {
		return nil, err
	}
	return Open(e, key)
}

// EnvelopeCodec encrypts and decrypts whole files as envelopes.
type EnvelopeCodec struct{}

// Encrypt implements the workflow codec.
func (EnvelopeCodec) Encrypt(plaintext []byte, key Key) ([]byte, error) {
	return EncryptBytes(plaintext, key)
}

// Decrypt implements the workflow codec.
func (EnvelopeCodec) Decrypt(data []byte, key Key) ([]byte, error) {
	return DecryptBytes(data, key)
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return gcm, nil
}
