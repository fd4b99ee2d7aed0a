package crypto

import "fmt"

// Associated data for each credential field
const (
	fieldName     = "name"
	fieldUsername = "username"
	fieldSecret   = "secret"
)

// Credential is a decrypted vault record
type Credential struct {
	Name     string
	Username string
	Secret   string
}

// SealedCredential is a vault record as persisted: every field is
// base64-encoded AES-GCM ciphertext under the vault key.
type SealedCredential struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// EncryptCredential seals all three fields of c under key
func EncryptCredential(c Credential, key []byte) (SealedCredential, error) {
	enc, err := NewEncryptor(key)
	if err != nil {
		return SealedCredential{}, err
	}
	defer enc.Destroy()

	return sealWith(enc, c)
}

// DecryptCredential opens all three fields of s under key.
// It fails with ErrAuthFailed or ErrInvalidCiphertext if any field does not open.
func DecryptCredential(s SealedCredential, key []byte) (Credential, error) {
	enc, err := NewEncryptor(key)
	if err != nil {
		return Credential{}, err
	}
	defer enc.Destroy()

	return openWith(enc, s)
}

// RekeyCredential decrypts s under oldKey and seals it again under newKey.
// s is never modified; on error the zero value is returned.
func RekeyCredential(s SealedCredential, oldKey, newKey []byte) (SealedCredential, error) {
	c, err := DecryptCredential(s, oldKey)
	if err != nil {
		return SealedCredential{}, err
	}
	return EncryptCredential(c, newKey)
}

func sealWith(enc *Encryptor, c Credential) (SealedCredential, error) {
	var (
		s   SealedCredential
		err error
	)
	if s.Name, err = enc.EncryptString(c.Name, fieldName); err != nil {
		return SealedCredential{}, fmt.Errorf("failed to encrypt %s: %w", fieldName, err)
	}
	if s.Username, err = enc.EncryptString(c.Username, fieldUsername); err != nil {
		return SealedCredential{}, fmt.Errorf("failed to encrypt %s: %w", fieldUsername, err)
	}
	if s.Secret, err = enc.EncryptString(c.Secret, fieldSecret); err != nil {
		return SealedCredential{}, fmt.Errorf("failed to encrypt %s: %w", fieldSecret, err)
	}
	return s, nil
}

func openWith(enc *Encryptor, s SealedCredential) (Credential, error) {
	var (
		c   Credential
		err error
	)
	if c.Name, err = enc.DecryptString(s.Name, fieldName); err != nil {
		return Credential{}, err
	}
	if c.Username, err = enc.DecryptString(s.Username, fieldUsername); err != nil {
		return Credential{}, err
	}
	if c.Secret, err = enc.DecryptString(s.Secret, fieldSecret); err != nil {
		return Credential{}, err
	}
	return c, nil
}
