package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"logpretty/internal/formatter"
	"logpretty/internal/source"

	"github.com/rs/zerolog/log"
)

const ioBufferSize = 64 * 1024

// Stats summarizes one or more streamed inputs.
type Stats struct {
	Inputs       int
	Lines        int64
	BytesWritten int64
}

func (s *Stats) add(o Stats) {
	s.Inputs += o.Inputs
	s.Lines += o.Lines
	s.BytesWritten += o.BytesWritten
}

type PrettyService interface {
	// Run formats r line by line into w until r is exhausted or ctx is done.
	Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error)
	// RunAll streams each input path in order; "-" is stdin.
	RunAll(ctx context.Context, paths []string, w io.Writer) (Stats, error)
}

type prettyService struct {
	formatter *formatter.Formatter
}

func NewPrettyService(f *formatter.Formatter) PrettyService {
	return &prettyService{formatter: f}
}

func (s *prettyService) RunAll(ctx context.Context, paths []string, w io.Writer) (Stats, error) {
	if len(paths) == 0 {
		paths = []string{source.Stdin}
	}

	var total Stats
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		startTime := time.Now()
		stats, err := s.runPath(ctx, path, w)
		total.add(stats)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || isWriteError(err) {
				return total, err
			}
			log.Error().Err(err).Str("input", path).Msg("Failed to process input")
			errs = append(errs, err)
			continue
		}

		log.Debug().
			Str("input", path).
			Int64("lines", stats.Lines).
			Int64("bytes_written", stats.BytesWritten).
			Dur("duration", time.Since(startTime)).
			Msg("Finished input")
	}

	return total, errors.Join(errs...)
}

func (s *prettyService) runPath(ctx context.Context, path string, w io.Writer) (Stats, error) {
	rc, err := source.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer rc.Close()

	stats, err := s.Run(ctx, rc, w)
	if err != nil {
		return stats, fmt.Errorf("failed to stream %s: %w", path, err)
	}
	return stats, nil
}

// Run reads lines split on "\n" (an optional "\r" before it is dropped) and
// writes one formatted block per line, in order. Output is flushed whenever
// the reader has nothing buffered, so a live tail shows each line as it
// arrives. ctx is checked between lines.
func (s *prettyService) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	stats := Stats{Inputs: 1}
	reader := bufio.NewReaderSize(r, ioBufferSize)
	writer := bufio.NewWriterSize(w, ioBufferSize)

	for {
		select {
		case <-ctx.Done():
			log.Info().Int64("lines", stats.Lines).Msg("Context cancelled while streaming input.")
			if err := writer.Flush(); err != nil {
				return stats, &writeError{err}
			}
			return stats, ctx.Err()
		default:
		}

		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			if err := writer.Flush(); err != nil {
				return stats, &writeError{err}
			}
			return stats, fmt.Errorf("failed to read input: %w", readErr)
		}

		terminated := strings.HasSuffix(line, "\n")
		if terminated || line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			stats.Lines++

			n, err := writer.WriteString(s.formatter.FormatLine(line))
			stats.BytesWritten += int64(n)
			if err != nil {
				return stats, &writeError{err}
			}
		}

		if readErr == io.EOF {
			if err := writer.Flush(); err != nil {
				return stats, &writeError{err}
			}
			return stats, nil
		}

		if reader.Buffered() == 0 {
			if err := writer.Flush(); err != nil {
				return stats, &writeError{err}
			}
		}
	}
}

// writeError marks failures of the output sink; they end the whole run.
type writeError struct {
	err error
}

func (e *writeError) Error() string { return "failed to write output: " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

func isWriteError(err error) bool {
	var we *writeError
	return errors.As(err, &we)
}
