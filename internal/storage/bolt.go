package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/illarion/pwvault/internal/crypto"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket  = []byte("config")  // version, vault id, timestamps, KDF params, master check
	RecordsBucket = []byte("records") // sealed credentials keyed by position
)

// Config keys
var (
	ConfigVersion     = []byte("version")
	ConfigVaultID     = []byte("vault_id")
	ConfigCreated     = []byte("created")
	ConfigModified    = []byte("modified")
	ConfigKDF         = []byte("kdf")
	ConfigMasterCheck = []byte("master_check")
)

// openTimeout bounds the wait for another process holding the file lock
const openTimeout = time.Second

// BoltStore keeps a vault in a BBolt database
type BoltStore struct {
	path string
	db   *bolt.DB
}

// NewBoltStore creates a BBolt store at path. The file is created on first Save.
func NewBoltStore(path string) *BoltStore {
	return &BoltStore{path: path}
}

func (s *BoltStore) Path() string   { return s.path }
func (s *BoltStore) Format() string { return FormatBolt }

// Exists reports whether the database file is present
func (s *BoltStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *BoltStore) open() (*bolt.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		if errors.Is(err, bolt.ErrInvalid) || errors.Is(err, bolt.ErrVersionMismatch) || errors.Is(err, bolt.ErrChecksum) {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return db, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Load reads the document from both buckets
func (s *BoltStore) Load() (*Document, error) {
	if !s.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	doc := &Document{Records: make([]crypto.SealedCredential, 0)}
	err = db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("%w: config bucket not found", ErrCorrupt)
		}

		version, err := strconv.Atoi(string(config.Get(ConfigVersion)))
		if err != nil {
			return fmt.Errorf("%w: bad version", ErrCorrupt)
		}
		doc.Version = version
		doc.VaultID = string(config.Get(ConfigVaultID))
		doc.MasterCheck = string(config.Get(ConfigMasterCheck))

		if err := doc.Created.UnmarshalBinary(config.Get(ConfigCreated)); err != nil {
			return fmt.Errorf("%w: bad created time", ErrCorrupt)
		}
		if err := doc.Modified.UnmarshalBinary(config.Get(ConfigModified)); err != nil {
			return fmt.Errorf("%w: bad modified time", ErrCorrupt)
		}
		if err := json.Unmarshal(config.Get(ConfigKDF), &doc.KDF); err != nil {
			return fmt.Errorf("%w: bad kdf params", ErrCorrupt)
		}

		records := tx.Bucket(RecordsBucket)
		if records == nil {
			return nil
		}
		// Keys are big-endian positions, so cursor order is list order
		return records.ForEach(func(k, v []byte) error {
			var rec crypto.SealedCredential
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("%w: bad record %x", ErrCorrupt, k)
			}
			doc.Records = append(doc.Records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Save rewrites config and records in one transaction
func (s *BoltStore) Save(doc *Document) error {
	db, err := s.open()
	if err != nil {
		return err
	}

	kdf, err := json.Marshal(doc.KDF)
	if err != nil {
		return fmt.Errorf("failed to marshal kdf params: %w", err)
	}
	created, err := doc.Created.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal created time: %w", err)
	}
	modified, err := doc.Modified.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal modified time: %w", err)
	}

	return db.Update(func(tx *bolt.Tx) error {
		config, err := tx.CreateBucketIfNotExists(ConfigBucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", ConfigBucket, err)
		}

		for _, kv := range []struct{ k, v []byte }{
			{ConfigVersion, []byte(strconv.Itoa(doc.Version))},
			{ConfigVaultID, []byte(doc.VaultID)},
			{ConfigCreated, created},
			{ConfigModified, modified},
			{ConfigKDF, kdf},
			{ConfigMasterCheck, []byte(doc.MasterCheck)},
		} {
			if err := config.Put(kv.k, kv.v); err != nil {
				return err
			}
		}

		if tx.Bucket(RecordsBucket) != nil {
			if err := tx.DeleteBucket(RecordsBucket); err != nil {
				return err
			}
		}
		records, err := tx.CreateBucket(RecordsBucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", RecordsBucket, err)
		}
		for i, rec := range doc.Records {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := records.Put(positionKey(i), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func positionKey(i int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(i))
	return k
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after deleting records or rotating the passphrase.
func (s *BoltStore) Compact() error {
	src, err := s.open()
	if err != nil {
		return err
	}
	srcPath := src.Path()
	tmpPath := srcPath + ".compact"

	// A leftover from an interrupted compaction must not be merged in
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale compact database: %w", err)
	}

	// Create new database
	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = src.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	if _, err := s.open(); err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	return nil
}
