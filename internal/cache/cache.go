// Package cache stores encoded feature reports on disk, keyed by a
// SHA-256 digest of the input series and run settings, with LZ4 block
// compression. A cache hit skips the whole extraction run for an
// unchanged series.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
)

// ErrMiss indicates the digest has no cached report.
var ErrMiss = errors.New("cache miss")

// dirPerm and filePerm are the permissions for the cache directory and
// its entries.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// uncompressedSizeLen is the length prefix storing the uncompressed size.
const uncompressedSizeLen = 8

// Store is a digest-addressed report cache rooted at one directory.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a cache directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Digest derives the cache key for a series and the settings that shape
// its report.
func Digest(ts []float64, flags []string, facts map[string]any) string {
	h := sha256.New()

	var buf [8]byte

	for _, v := range ts {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}

	for _, flag := range flags {
		h.Write([]byte(flag))
		h.Write([]byte{0})
	}

	fmt.Fprintf(h, "%v", facts)

	return hex.EncodeToString(h.Sum(nil))
}

// Put compresses and stores an encoded report under its digest.
func (s *Store) Put(digest string, data []byte) error {
	compressed := make([]byte, uncompressedSizeLen+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint64(compressed, uint64(len(data)))

	written, err := lz4.CompressBlock(data, compressed[uncompressedSizeLen:], nil)
	if err != nil {
		return fmt.Errorf("compress report: %w", err)
	}

	if written == 0 {
		// Incompressible payload: store it raw behind a zero size prefix.
		binary.LittleEndian.PutUint64(compressed, 0)
		compressed = append(compressed[:uncompressedSizeLen], data...)
	} else {
		compressed = compressed[:uncompressedSizeLen+written]
	}

	if err := os.WriteFile(s.path(digest), compressed, filePerm); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	return nil
}

// Get returns the decompressed report for a digest, ErrMiss when absent.
func (s *Store) Get(digest string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}

		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	if len(raw) < uncompressedSizeLen {
		return nil, fmt.Errorf("%w: truncated entry", ErrMiss)
	}

	size := binary.LittleEndian.Uint64(raw)
	payload := raw[uncompressedSizeLen:]

	if size == 0 {
		return payload, nil
	}

	decompressed := make([]byte, size)

	if _, err := lz4.UncompressBlock(payload, decompressed); err != nil {
		return nil, fmt.Errorf("decompress cache entry: %w", err)
	}

	return decompressed, nil
}

// Clear removes every cache entry.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("list cache dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lz4" {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("remove cache entry: %w", err)
		}
	}

	return nil
}

func (s *Store) path(digest string) string {
	return filepath.Join(s.dir, digest+".lz4")
}
