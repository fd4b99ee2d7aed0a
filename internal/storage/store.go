package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Vault file formats
const (
	FormatJSON = "json"
	FormatBolt = "bolt"
)

const boltMagic = 0xED0CDAED

var (
	ErrNotFound      = errors.New("vault file not found")
	ErrCorrupt       = errors.New("vault file is corrupt")
	ErrUnknownFormat = errors.New("unknown vault format")
)

// Store loads and saves one vault document
type Store interface {
	Path() string
	Format() string
	Exists() bool
	Load() (*Document, error)
	Save(doc *Document) error
	Compact() error
	Close() error
}

// Open returns the store for path. An existing file keeps its own format;
// format only chooses the backend for a file that does not exist yet.
func Open(path, format string) (Store, error) {
	if _, err := os.Stat(path); err == nil {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	switch format {
	case "", FormatJSON:
		return NewFileStore(path), nil
	case FormatBolt:
		return NewBoltStore(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DetectFormat sniffs the format of an existing vault file
func DetectFormat(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	defer f.Close()

	head := make([]byte, 64)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]

	if trimmed := bytes.TrimLeft(head, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON, nil
	}

	// BBolt meta page: 16-byte page header followed by the magic number
	if len(head) >= 20 {
		magic := head[16:20]
		if binary.LittleEndian.Uint32(magic) == boltMagic || binary.BigEndian.Uint32(magic) == boltMagic {
			return FormatBolt, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrCorrupt, path)
}
