package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Open returns a reader for path. Compressed logs (.gz, .zst) are decoded on
// the fly. Closing the reader for Stdin leaves os.Stdin open.
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to read gzip header of %s: %w", path, err)
		}
		log.Debug().Str("file", path).Msg("Reading gzip-compressed input")
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, file}}, nil
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to create zstd decoder for %s: %w", path, err)
		}
		log.Debug().Str("file", path).Msg("Reading zstd-compressed input")
		return &stackedCloser{Reader: dec, closers: []io.Closer{zstdCloser{dec}, file}}, nil
	default:
		return file, nil
	}
}

// stackedCloser closes a decoder before the file underneath it.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// zstd.Decoder.Close has no error result.
type zstdCloser struct {
	dec *zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.dec.Close()
	return nil
}
