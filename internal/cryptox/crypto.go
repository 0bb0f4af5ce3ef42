// Package cryptox implements password-based encryption of journal entries.
//
// Every ciphertext carries its own random salt and nonce, so encrypting the
// same text twice yields different output, while Decrypt with the same
// password always recovers the original text.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32
)

var errMalformed = errors.New("malformed ciphertext")

// Params are the argon2id cost parameters used to turn a password into an
// AES-256 key. Memory is in KiB.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams matches the cost used for vault master keys.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4}

// Cipher encrypts and decrypts single text values under a password.
// A Cipher is stateless apart from its parameters and safe for concurrent use.
type Cipher struct {
	params Params
}

// New returns a Cipher using p. Zero fields fall back to DefaultParams.
func New(p Params) *Cipher {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.Memory == 0 {
		p.Memory = DefaultParams.Memory
	}
	if p.Threads == 0 {
		p.Threads = DefaultParams.Threads
	}
	return &Cipher{params: p}
}

// Params reports the KDF parameters in use.
func (c *Cipher) Params() Params {
	return c.params
}

// DeriveMasterKey derives a 32-byte key from password and salt with argon2id.
func (c *Cipher) DeriveMasterKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, c.params.Time, c.params.Memory, c.params.Threads, keySize)
}

// Encrypt seals plaintext with a key derived from password and a fresh salt.
// The result is base64(salt || nonce || AES-GCM ciphertext).
func (c *Cipher) Encrypt(plaintext string, password []byte) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := c.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(nonceSize)

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+aesgcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aesgcm.Seal(out, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. A wrong password or a damaged ciphertext yields
// an error wrapping common.ErrDecryption; the GCM tag guarantees no garbage
// is ever returned as success.
func (c *Cipher) Decrypt(ciphertext string, password []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrDecryption, err)
	}
	if len(raw) < saltSize+nonceSize {
		return "", fmt.Errorf("%w: %w", common.ErrDecryption, errMalformed)
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]
	sealed := raw[saltSize+nonceSize:]

	key := c.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrDecryption, err)
	}

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrDecryption, err)
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

var defaultCipher = New(DefaultParams)

// Encrypt encrypts plaintext with DefaultParams.
func Encrypt(plaintext string, password []byte) (string, error) {
	return defaultCipher.Encrypt(plaintext, password)
}

// Decrypt decrypts a value produced by Encrypt with DefaultParams.
func Decrypt(ciphertext string, password []byte) (string, error) {
	return defaultCipher.Decrypt(ciphertext, password)
}
