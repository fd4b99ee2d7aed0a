package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenNewFileUsesRequestedFormat(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(filepath.Join(dir, "a.pwv"), "")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, s.Format())

	s, err = Open(filepath.Join(dir, "b.pwv"), FormatBolt)
	require.NoError(t, err)
	assert.Equal(t, FormatBolt, s.Format())

	_, err = Open(filepath.Join(dir, "c.pwv"), "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestOpenExistingFileDetectsFormat(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "j.pwv")
	boltPath := filepath.Join(dir, "b.pwv")

	require.NoError(t, NewFileStore(jsonPath).Save(testDocument(t)))
	bs := NewBoltStore(boltPath)
	require.NoError(t, bs.Save(testDocument(t)))
	require.NoError(t, bs.Close())

	// The requested format is ignored for existing files
	s, err := Open(jsonPath, FormatBolt)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, s.Format())

	s, err = Open(boltPath, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatBolt, s.Format())
	defer s.Close()

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, doc.Records, 3)
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()

	_, err := DetectFormat(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrNotFound)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = DetectFormat(empty)
	assert.ErrorIs(t, err, ErrCorrupt)

	junk := filepath.Join(dir, "junk")
	require.NoError(t, os.WriteFile(junk, []byte("hello, this is definitely not a vault file"), 0600))
	_, err = DetectFormat(junk)
	assert.ErrorIs(t, err, ErrCorrupt)

	indented := filepath.Join(dir, "indented")
	require.NoError(t, os.WriteFile(indented, []byte("\n  {\"version\":1}"), 0600))
	format, err := DetectFormat(indented)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)
}
