package core

import (
	"encoding/hex"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/illarion/pwvault/internal/crypto"
	"github.com/illarion/pwvault/internal/storage"
	"go.uber.org/zap"
)

// VaultExtension is appended to bare vault names
const VaultExtension = ".pwv"

// Options controls how vault files are created and opened
type Options struct {
	Format     string // storage format for new vaults
	KDF        string // key derivation algorithm for new vaults
	Iterations uint32 // 0 selects the algorithm default
	Logger     *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Vault is an open vault file
type Vault struct {
	store storage.Store
	doc   *storage.Document
	log   *zap.Logger
}

// Entry is one line of a listing
type Entry struct {
	Index    int
	Name     string
	Username string
}

// Update holds the fields to change in Edit. Nil fields keep their value.
type Update struct {
	Name     *string
	Username *string
	Secret   *string
}

// Info describes a vault without decrypting it
type Info struct {
	ID       string
	Path     string
	Format   string
	KDF      string
	Records  int
	Created  time.Time
	Modified time.Time
}

// Create writes a new empty vault at path. It never overwrites an existing file.
func Create(path string, password []byte, opts Options) error {
	if len(password) == 0 {
		return validationError("passphrase must not be empty")
	}

	// Check if already exists
	if _, err := os.Stat(path); err == nil {
		return ErrVaultExists
	}

	kdf, err := crypto.NewKDF(opts.KDF, opts.Iterations)
	if err != nil {
		return validationError("%s", err)
	}

	store, err := storage.Open(path, opts.Format)
	if err != nil {
		return storageError(err)
	}
	defer store.Close()

	doc := storage.NewDocument(uuid.NewString(), *kdf, kdf.DeriveCheck(password))
	if err := store.Save(doc); err != nil {
		return storageError(err)
	}

	opts.logger().Debug("vault created",
		zap.String("path", path),
		zap.String("vault_id", doc.VaultID),
		zap.String("format", store.Format()),
		zap.String("kdf", kdf.Algorithm))
	return nil
}

// Open loads the vault at path
func Open(path string, opts Options) (*Vault, error) {
	store, err := storage.Open(path, opts.Format)
	if err != nil {
		return nil, storageError(err)
	}

	doc, err := store.Load()
	if err != nil {
		store.Close()
		return nil, storageError(err)
	}

	v := &Vault{store: store, doc: doc, log: opts.logger()}
	v.log.Debug("vault opened",
		zap.String("path", path),
		zap.String("format", store.Format()),
		zap.Int("records", len(doc.Records)))
	return v, nil
}

// Close releases the vault file
func (v *Vault) Close() error {
	return v.store.Close()
}

// ID returns the vault's identifier
func (v *Vault) ID() string {
	return v.doc.VaultID
}

// Info returns vault details that need no passphrase
func (v *Vault) Info() Info {
	return Info{
		ID:       v.doc.VaultID,
		Path:     v.store.Path(),
		Format:   v.store.Format(),
		KDF:      v.doc.KDF.Algorithm,
		Records:  len(v.doc.Records),
		Created:  v.doc.Created,
		Modified: v.doc.Modified,
	}
}

// VerifyPassword checks password against the stored master check
func (v *Vault) VerifyPassword(password []byte) bool {
	check, err := v.doc.Check()
	if err != nil {
		return false
	}
	return v.doc.KDF.Verify(password, check)
}

// unlock derives the key for password and verifies it.
// The caller must clear the returned key.
func (v *Vault) unlock(password []byte) ([]byte, error) {
	check, err := v.doc.Check()
	if err != nil {
		return nil, storageError(err)
	}

	key := v.doc.KDF.DeriveKey(password)
	if !crypto.ConstantTimeCompare(crypto.MasterCheck(key), check) {
		crypto.ClearBytes(key)
		return nil, ErrDecrypt
	}
	return key, nil
}

// commit persists next and makes it the current document
func (v *Vault) commit(next *storage.Document) error {
	next.Touch()
	if err := v.store.Save(next); err != nil {
		return storageError(err)
	}
	v.doc = next

	v.log.Debug("vault saved",
		zap.String("path", v.store.Path()),
		zap.Int("records", len(next.Records)))
	return nil
}

func (v *Vault) checkIndex(index int) error {
	if index < 0 || index >= len(v.doc.Records) {
		return notFoundError(index, len(v.doc.Records))
	}
	return nil
}

// List decrypts the name and username of every record.
// Any record that fails to decrypt fails the whole listing.
func (v *Vault) List(password []byte) ([]Entry, error) {
	key, err := v.unlock(password)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	entries := make([]Entry, 0, len(v.doc.Records))
	for i, rec := range v.doc.Records {
		c, err := crypto.DecryptCredential(rec, key)
		if err != nil {
			v.log.Debug("record failed to open", zap.Int("record", i))
			return nil, ErrDecrypt
		}
		entries = append(entries, Entry{Index: i, Name: c.Name, Username: c.Username})
	}
	return entries, nil
}

// Get decrypts the record at index
func (v *Vault) Get(password []byte, index int) (crypto.Credential, error) {
	key, err := v.unlock(password)
	if err != nil {
		return crypto.Credential{}, err
	}
	defer crypto.ClearBytes(key)

	if err := v.checkIndex(index); err != nil {
		return crypto.Credential{}, err
	}

	c, err := crypto.DecryptCredential(v.doc.Records[index], key)
	if err != nil {
		v.log.Debug("record failed to open", zap.Int("record", index))
		return crypto.Credential{}, ErrDecrypt
	}
	return c, nil
}

// Add encrypts c, appends it and saves the vault. It returns the new record's index.
func (v *Vault) Add(password []byte, c crypto.Credential) (int, error) {
	if c.Name == "" {
		return 0, validationError("credential name must not be empty")
	}

	key, err := v.unlock(password)
	if err != nil {
		return 0, err
	}
	defer crypto.ClearBytes(key)

	sealed, err := crypto.EncryptCredential(c, key)
	if err != nil {
		return 0, err
	}

	next := v.doc.Clone()
	next.Records = append(next.Records, sealed)
	if err := v.commit(next); err != nil {
		return 0, err
	}
	return len(next.Records) - 1, nil
}

// Edit replaces the supplied fields of the record at index.
// It returns the fields whose value actually changed.
func (v *Vault) Edit(password []byte, index int, upd Update) ([]FieldChange, error) {
	if upd.Name != nil && *upd.Name == "" {
		return nil, validationError("credential name must not be empty")
	}

	key, err := v.unlock(password)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	if err := v.checkIndex(index); err != nil {
		return nil, err
	}

	current, err := crypto.DecryptCredential(v.doc.Records[index], key)
	if err != nil {
		v.log.Debug("record failed to open", zap.Int("record", index))
		return nil, ErrDecrypt
	}

	updated, changes := applyUpdate(current, upd)

	sealed, err := crypto.EncryptCredential(updated, key)
	if err != nil {
		return nil, err
	}

	next := v.doc.Clone()
	next.Records[index] = sealed
	if err := v.commit(next); err != nil {
		return nil, err
	}
	return changes, nil
}

// Delete removes the record at index; later records move down by one
func (v *Vault) Delete(password []byte, index int) error {
	key, err := v.unlock(password)
	if err != nil {
		return err
	}
	crypto.ClearBytes(key)

	if err := v.checkIndex(index); err != nil {
		return err
	}

	next := v.doc.Clone()
	next.Records = append(next.Records[:index], next.Records[index+1:]...)
	return v.commit(next)
}

// ChangePassword re-keys every record under newPassword with a fresh salt.
// Either all records are re-keyed and saved, or nothing changes.
func (v *Vault) ChangePassword(currentPassword, newPassword []byte) error {
	if len(newPassword) == 0 {
		return validationError("new passphrase must not be empty")
	}

	oldKey, err := v.unlock(currentPassword)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(oldKey)

	// Same algorithm and cost, new salt
	newKDF := v.doc.KDF
	newKDF.Salt, err = crypto.GenerateRandom(crypto.SaltSize)
	if err != nil {
		return err
	}

	newKey := newKDF.DeriveKey(newPassword)
	defer crypto.ClearBytes(newKey)

	records := make([]crypto.SealedCredential, len(v.doc.Records))
	for i, rec := range v.doc.Records {
		rekeyed, err := crypto.RekeyCredential(rec, oldKey, newKey)
		if err != nil {
			v.log.Debug("rotation aborted", zap.Int("record", i))
			return ErrDecrypt
		}
		records[i] = rekeyed
	}

	next := v.doc.Clone()
	next.KDF = newKDF
	next.MasterCheck = hex.EncodeToString(crypto.MasterCheck(newKey))
	next.Records = records
	if err := v.commit(next); err != nil {
		return err
	}

	v.log.Debug("records re-keyed", zap.Int("records", len(records)))
	return nil
}

// Compact reclaims unused space in the vault file
func (v *Vault) Compact() error {
	if err := v.store.Compact(); err != nil {
		return storageError(err)
	}
	v.log.Debug("vault compacted", zap.String("path", v.store.Path()))
	return nil
}
