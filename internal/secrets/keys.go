package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/scrypt"
)

const (
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32

	// SaltSize is the password salt size in bytes.
	SaltSize = 16

	// scrypt cost parameters. Changing them changes every derived key.
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

// Key is raw symmetric key material.
type Key [KeySize]byte

// Wipe zeroes the key in place.
func (k *Key) Wipe() {
	memguard.WipeBytes(k[:])
}

// GenerateKey returns a new random key.
func GenerateKey() (Key, error) {
	var key Key
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return Key{}, fmt.Errorf("reading random key: %w", err)
	}
	return key, nil
}

// GenerateSalt returns a random salt encoded as hex.
func GenerateSalt() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("reading random salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// ParseSalt decodes a hex salt and checks it is exactly SaltSize bytes.
func ParseSalt(saltHex string) ([]byte, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex", kerrors.ErrInvalidSaltFormat)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", kerrors.ErrInvalidSaltFormat, SaltSize, len(salt))
	}
	return salt, nil
}

// DeriveKey derives a key from a password and a hex salt with scrypt.
// The same password and salt always produce the same key. An empty
// password is accepted.
func DeriveKey(password []byte, saltHex string) (Key, error) {
	salt, err := ParseSalt(saltHex)
	if err != nil {
		return Key{}, err
	}

	derived, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return Key{}, fmt.Errorf("deriving key: %w", err)
	}
	defer memguard.WipeBytes(derived)

	var key Key
	copy(key[:], derived)
	return key, nil
}

// LoadKey reads a raw key file.
func LoadKey(path string) (Key, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Key{}, fmt.Errorf("%w: %s", kerrors.ErrPathNotFound, path)
	}
	if err != nil {
		return Key{}, fmt.Errorf("%w: reading key file %s: %v", kerrors.ErrIOFailure, path, err)
	}
	defer memguard.WipeBytes(data)

	if len(data) != KeySize {
		return Key{}, fmt.Errorf("%w: %s holds %d bytes, expected %d", kerrors.ErrKeyFileInvalid, path, len(data), KeySize)
	}

	var key Key
	copy(key[:], data)
	return key, nil
}

// SaveKey writes the raw key atomically with owner-only permissions.
func SaveKey(path string, key Key) error {
	return WriteFileAtomic(path, key[:], 0600)
}
