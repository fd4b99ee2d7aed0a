// Package storage persists pwvault documents.
//
// A Document is the whole vault: KDF parameters, the master check and the
// sealed credentials in position order. Two backends store it:
//   - FileStore: one JSON document, replaced atomically (temp file, fsync, rename)
//   - BoltStore: a BBolt database with a config bucket and a records bucket,
//     rewritten in a single transaction on every save
//
// Either way a failed save leaves the previous content on disk.
// Open detects the backend of an existing file from its content.
package storage
