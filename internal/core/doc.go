// Package core provides the pwvault vault operations.
//
// A Vault is a session over one vault file: Open loads the document, every
// operation verifies the supplied passphrase against the stored master check,
// applies its change to a copy of the document, saves it, and only then
// makes the copy current. A failed save leaves both the file and the session
// unchanged.
//
// Core operations include:
//   - Create: write a new empty vault with a fresh salt and master check
//   - List/Get: decrypt records (all or nothing)
//   - Add/Edit/Delete: position-addressed record changes
//   - ChangePassword: re-key every record under a new passphrase, all or nothing
//
// Records are addressed by their zero-based position. Deleting a record
// shifts every later record down by one.
package core
