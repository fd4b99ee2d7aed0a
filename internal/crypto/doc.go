// Package crypto provides the credential cipher for pwvault.
//
// Field encryption uses AES-256-GCM (tink) with:
//   - 32-byte key derived from the master passphrase
//   - 12-byte random nonce per field, so sealing is not deterministic
//   - the field name as associated data, so fields cannot be swapped
//
// Key derivation uses a per-vault random salt with either:
//   - PBKDF2-HMAC-SHA256, 210,000 iterations (default)
//   - Argon2id, time 3, 64 MiB, 4 threads
//
// The master check stored in a vault is HMAC-SHA256 of a fixed label under
// the derived key. It verifies a passphrase without being usable as a key.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
