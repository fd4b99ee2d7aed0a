package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

const (
	CheckSize  = sha256.Size
	checkLabel = "pwvault-master-check"
)

// MasterCheck computes the passphrase verification value for a derived key.
// It is a one-way function of the key and never equals the key.
func MasterCheck(key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(checkLabel))
	return mac.Sum(nil)
}

// DeriveCheck derives the key for password and returns its master check
func (k *KDF) DeriveCheck(password []byte) []byte {
	key := k.DeriveKey(password)
	defer ClearBytes(key)
	return MasterCheck(key)
}

// Verify reports whether password produces the stored check
func (k *KDF) Verify(password, check []byte) bool {
	if len(check) != CheckSize {
		return false
	}
	return ConstantTimeCompare(k.DeriveCheck(password), check)
}
