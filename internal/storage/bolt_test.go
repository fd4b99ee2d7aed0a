package storage

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/illarion/pwvault/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func testDocument(t *testing.T) *Document {
	t.Helper()
	kdf, err := crypto.NewKDF(crypto.AlgPBKDF2, 1000)
	require.NoError(t, err)
	doc := NewDocument("3f1c2a9e-0000-4000-8000-000000000001", *kdf, kdf.DeriveCheck([]byte("pw")))
	doc.Records = append(doc.Records,
		crypto.SealedCredential{Name: "bjE=", Username: "dTE=", Secret: "czE="},
		crypto.SealedCredential{Name: "bjI=", Username: "dTI=", Secret: "czI="},
		crypto.SealedCredential{Name: "bjM=", Username: "dTM=", Secret: "czM="},
	)
	return doc
}

func TestBoltSaveAndLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.pwv")

	store := NewBoltStore(dbPath)
	defer store.Close()

	assert.False(t, store.Exists())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	doc := testDocument(t)
	require.NoError(t, store.Save(doc))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, doc.VaultID, loaded.VaultID)
	assert.Equal(t, doc.MasterCheck, loaded.MasterCheck)
	assert.Equal(t, doc.KDF, loaded.KDF)
	assert.True(t, doc.Created.Equal(loaded.Created))
	assert.True(t, doc.Modified.Equal(loaded.Modified))
	assert.Equal(t, doc.Records, loaded.Records)
}

func TestBoltSaveRejectsUnencodableTime(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.pwv")
	store := NewBoltStore(dbPath)
	defer store.Close()

	// A -1 minute zone offset cannot be binary encoded
	doc := testDocument(t)
	doc.Modified = doc.Modified.In(time.FixedZone("odd", -60))
	err := store.Save(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modified time")
}

func TestBoltSaveReplacesRecords(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.pwv")
	store := NewBoltStore(dbPath)
	defer store.Close()

	doc := testDocument(t)
	require.NoError(t, store.Save(doc))

	// Drop the first record, the rest must shift down
	doc.Records = doc.Records[1:]
	require.NoError(t, store.Save(doc))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Records, 2)
	assert.Equal(t, "bjI=", loaded.Records[0].Name)
	assert.Equal(t, "bjM=", loaded.Records[1].Name)
}

func TestBoltManyRecordsKeepOrder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.pwv")
	store := NewBoltStore(dbPath)
	defer store.Close()

	doc := testDocument(t)
	doc.Records = nil
	for i := 0; i < 300; i++ {
		doc.Records = append(doc.Records, crypto.SealedCredential{Name: strconv.Itoa(i), Secret: string(rune('a' + i%26))})
	}
	require.NoError(t, store.Save(doc))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, doc.Records, loaded.Records)
}

func TestBoltLoadMissingConfig(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.pwv")

	db, err := bolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucket([]byte("other"))
		return err
	}))
	require.NoError(t, db.Close())

	store := NewBoltStore(dbPath)
	defer store.Close()
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestBoltCompact(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.pwv")
	store := NewBoltStore(dbPath)
	defer store.Close()

	doc := testDocument(t)
	require.NoError(t, store.Save(doc))
	require.NoError(t, store.Compact())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, doc.Records, loaded.Records)

	_, err = os.Stat(dbPath + ".compact")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dbPath + ".backup")
	assert.True(t, os.IsNotExist(err))
}

func TestBoltCompactIgnoresStaleCompactFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.pwv")

	// Leave a copy holding three records where an interrupted compaction would
	store := NewBoltStore(dbPath)
	doc := testDocument(t)
	require.NoError(t, store.Save(doc))
	require.NoError(t, store.Close())

	data, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dbPath+".compact", data, 0600))

	store = NewBoltStore(dbPath)
	defer store.Close()

	current := doc.Clone()
	current.Records = current.Records[:1]
	require.NoError(t, store.Save(current))
	require.NoError(t, store.Compact())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, current.Records, loaded.Records)

	_, err = os.Stat(dbPath + ".compact")
	assert.True(t, os.IsNotExist(err))
}
