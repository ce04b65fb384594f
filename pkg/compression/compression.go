// Package compression provides streaming compression for CSV output and
// ZIP extraction support.
//
// Three algorithms are supported, selected by file extension or
// configuration: gzip and zstd (klauspost/compress) and lz4
// (pierrec/lz4). Compression ratio (best to worst): Zstd > Gzip > LZ4;
// speed is the reverse order.
package compression

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None disables compression
	None Algorithm = "none"
	// Gzip is widely compatible with moderate compression
	Gzip Algorithm = "gzip"
	// LZ4 is the fastest option with the lowest ratio
	LZ4 Algorithm = "lz4"
	// Zstd offers the best ratio at reasonable speed
	Zstd Algorithm = "zstd"
)

// DetectFromPath selects an algorithm from a file extension.
func DetectFromPath(path string) Algorithm {
	switch filepath.Ext(path) {
	case ".gz", ".gzip":
		return Gzip
	case ".lz4":
		return LZ4
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// nopWriteCloser passes writes through for the None algorithm.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with a streaming compressor for the algorithm.
// The returned writer must be closed to flush trailing blocks; closing
// it does not close the underlying writer.
func NewWriter(w io.Writer, algorithm Algorithm) (io.WriteCloser, error) {
	switch algorithm {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// NewReader wraps r with a streaming decompressor for the algorithm.
func NewReader(r io.Reader, algorithm Algorithm) (io.ReadCloser, error) {
	switch algorithm {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gr, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}
