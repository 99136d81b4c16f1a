// Package cipher implements the symmetric stream cipher used for the
// operator message channel.
//
// The keystream is SHA-256 in counter mode: block i is
// SHA256(key || bigEndian64(i)), blocks are concatenated and truncated to
// the message length, and the message is XORed against it. Ciphertexts are
// carried as standard base64. The scheme is deterministic: the same key and
// plaintext always produce the same ciphertext, which the paired controller
// relies on.
package cipher

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// KeySize is the required key length in bytes. Longer key files are
// truncated to this size; shorter ones are rejected.
const KeySize = 32

// ErrKeySize is returned when a provided key is not KeySize bytes.
var ErrKeySize = errors.New("cipher key must be 32 bytes")

// Cipher encrypts and decrypts messages with a fixed symmetric key.
type Cipher struct {
	key []byte
}

// New creates a Cipher from a raw key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w (got %d)", ErrKeySize, len(key))
	}

	c := &Cipher{key: make([]byte, KeySize)}
	copy(c.key, key)
	return c, nil
}

// LoadOrCreateKey reads a key file, generating and persisting a fresh
// random key when the file does not exist. Key files larger than KeySize
// are accepted and truncated, matching the controller's reader.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) < KeySize {
			return nil, fmt.Errorf("%w: key file %s holds %d bytes", ErrKeySize, path, len(data))
		}
		return data[:KeySize], nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating key dir: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("writing key file: %w", err)
	}

	return key, nil
}

// Encrypt XORs plaintext against the keystream and returns base64 ciphertext.
func (c *Cipher) Encrypt(plaintext string) string {
	data := []byte(plaintext)
	ks := c.keystream(len(data))
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ ks[i]
	}
	return base64.StdEncoding.EncodeToString(out)
}

// Decrypt reverses Encrypt. It fails only on malformed base64; any 32-byte
// key "succeeds" on any ciphertext, producing garbage for the wrong key.
func (c *Cipher) Decrypt(b64Ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64Ciphertext)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	ks := c.keystream(len(data))
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ ks[i]
	}
	return string(out), nil
}

// keystream produces length bytes of SHA-256 counter-mode keystream.
func (c *Cipher) keystream(length int) []byte {
	stream := make([]byte, 0, length+sha256.Size)
	buf := make([]byte, len(c.key)+8)
	copy(buf, c.key)

	var counter uint64
	for len(stream) < length {
		binary.BigEndian.PutUint64(buf[len(c.key):], counter)
		h := sha256.Sum256(buf)
		stream = append(stream, h[:]...)
		counter++
	}

	return stream[:length]
}
