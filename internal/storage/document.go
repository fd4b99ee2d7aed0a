package storage

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/illarion/pwvault/internal/crypto"
)

// DocumentVersion is the only document layout this package reads and writes
const DocumentVersion = 1

// Document represents a persisted vault
type Document struct {
	Version     int                       `json:"version"`
	VaultID     string                    `json:"vault_id"`
	Created     time.Time                 `json:"created"`
	Modified    time.Time                 `json:"modified"`
	KDF         crypto.KDF                `json:"kdf"`
	MasterCheck string                    `json:"master_check"`
	Records     []crypto.SealedCredential `json:"records"`
}

// NewDocument creates an empty vault document
func NewDocument(vaultID string, kdf crypto.KDF, check []byte) *Document {
	now := time.Now().UTC()
	return &Document{
		Version:     DocumentVersion,
		VaultID:     vaultID,
		Created:     now,
		Modified:    now,
		KDF:         kdf,
		MasterCheck: hex.EncodeToString(check),
		Records:     make([]crypto.SealedCredential, 0),
	}
}

// Check returns the decoded master check
func (d *Document) Check() ([]byte, error) {
	check, err := hex.DecodeString(d.MasterCheck)
	if err != nil {
		return nil, fmt.Errorf("%w: master check is not hex", ErrCorrupt)
	}
	return check, nil
}

// Validate checks that the document can be unlocked
func (d *Document) Validate() error {
	if d.Version != DocumentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, d.Version)
	}
	check, err := d.Check()
	if err != nil {
		return err
	}
	if len(check) != crypto.CheckSize {
		return fmt.Errorf("%w: master check has %d bytes", ErrCorrupt, len(check))
	}
	if err := d.KDF.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if d.Records == nil {
		d.Records = make([]crypto.SealedCredential, 0)
	}
	return nil
}

// Clone returns a deep copy that can be mutated without touching d
func (d *Document) Clone() *Document {
	c := *d
	c.KDF.Salt = append([]byte(nil), d.KDF.Salt...)
	c.Records = append(make([]crypto.SealedCredential, 0, len(d.Records)), d.Records...)
	return &c
}

// Touch updates the last modified timestamp
func (d *Document) Touch() {
	d.Modified = time.Now().UTC()
}
