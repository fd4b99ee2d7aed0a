package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	tinkaead "github.com/tink-crypto/tink-go/v2/aead/subtle"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // Salt size in bytes
	KeySize      = 32     // AES-256 key size
	NonceSize    = 12     // GCM nonce size
	TagSize      = 16     // GCM authentication tag size
	DefaultIters = 210000 // Default PBKDF2 iterations (OWASP minimum)

	DefaultArgonTime    = 3
	DefaultArgonMemory  = 64 * 1024 // KiB
	DefaultArgonThreads = 4
)

// KDF algorithm names as stored in vault files
const (
	AlgPBKDF2   = "pbkdf2-sha256"
	AlgArgon2id = "argon2id"
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrUnknownKDF        = errors.New("unknown key derivation algorithm")
	ErrInvalidKDF        = errors.New("invalid key derivation parameters")
)

// KDF handles key derivation from passwords
type KDF struct {
	Algorithm  string `json:"algorithm"`
	Salt       []byte `json:"salt"`
	Iterations uint32 `json:"iterations"`
	Memory     uint32 `json:"memory,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
}

// NormalizeAlgorithm maps user-facing names ("pbkdf2", "argon2") to stored names.
func NormalizeAlgorithm(name string) (string, error) {
	switch name {
	case "", "pbkdf2", AlgPBKDF2:
		return AlgPBKDF2, nil
	case "argon2", AlgArgon2id:
		return AlgArgon2id, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKDF, name)
	}
}

// NewKDF creates a new KDF with a random salt.
// iterations of 0 selects the algorithm default.
func NewKDF(algorithm string, iterations uint32) (*KDF, error) {
	alg, err := NormalizeAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}

	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	kdf := &KDF{Algorithm: alg, Salt: salt, Iterations: iterations}
	switch alg {
	case AlgPBKDF2:
		if kdf.Iterations == 0 {
			kdf.Iterations = DefaultIters
		}
	case AlgArgon2id:
		if kdf.Iterations == 0 {
			kdf.Iterations = DefaultArgonTime
		}
		kdf.Memory = DefaultArgonMemory
		kdf.Threads = DefaultArgonThreads
	}
	return kdf, nil
}

// Validate checks that the parameters can derive a key
func (k *KDF) Validate() error {
	if len(k.Salt) == 0 {
		return fmt.Errorf("%w: empty salt", ErrInvalidKDF)
	}
	if k.Iterations == 0 {
		return fmt.Errorf("%w: zero iterations", ErrInvalidKDF)
	}
	switch k.Algorithm {
	case AlgPBKDF2:
		return nil
	case AlgArgon2id:
		if k.Memory == 0 || k.Threads == 0 {
			return fmt.Errorf("%w: argon2id needs memory and threads", ErrInvalidKDF)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKDF, k.Algorithm)
	}
}

// DeriveKey derives an encryption key from a password
func (k *KDF) DeriveKey(password []byte) []byte {
	if k.Algorithm == AlgArgon2id {
		return argon2.IDKey(password, k.Salt, k.Iterations, k.Memory, k.Threads, KeySize)
	}
	return pbkdf2.Key(password, k.Salt, int(k.Iterations), KeySize, sha256.New)
}

// Encryptor provides authenticated encryption
type Encryptor struct {
	key  []byte
	aead *tinkaead.AESGCM
}

// NewEncryptor creates a new encryptor with the given key.
// The encryptor keeps its own copy of the key.
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key size %d", len(key))
	}
	own := append([]byte(nil), key...)

	aead, err := tinkaead.NewAESGCM(own)
	if err != nil {
		ClearBytes(own)
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &Encryptor{key: own, aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM. The output is nonce || ciphertext || tag.
func (e *Encryptor) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	ciphertext, err := e.aead.Encrypt(plaintext, associatedData)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}
	return ciphertext, nil
}

// Decrypt decrypts ciphertext using AES-256-GCM
func (e *Encryptor) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize+TagSize {
		return nil, ErrInvalidCiphertext
	}

	plaintext, err := e.aead.Decrypt(ciphertext, associatedData)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}

// EncryptString seals s and returns it base64 encoded
func (e *Encryptor) EncryptString(s, associatedData string) (string, error) {
	ciphertext, err := e.Encrypt([]byte(s), []byte(associatedData))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString reverses EncryptString
func (e *Encryptor) DecryptString(encoded, associatedData string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := e.Decrypt(ciphertext, []byte(associatedData))
	if err != nil {
		return "", err
	}
	defer ClearBytes(plaintext)

	return string(plaintext), nil
}

// Destroy clears the encryptor's key from memory
func (e *Encryptor) Destroy() {
	ClearBytes(e.key)
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
