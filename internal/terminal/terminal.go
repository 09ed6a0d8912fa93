package terminal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsRegularFile reports whether f is a regular file (e.g. `< app.log`).
func IsRegularFile(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsPipe reports whether f is neither a terminal nor a regular file, which in
// practice means we are on the reading end of `app | logpretty`.
func IsPipe(f *os.File) bool {
	return !IsTerminal(f) && !IsRegularFile(f)
}

// NotifyContext returns a context cancelled by SIGTERM or SIGINT. With
// swallowFirst set, the first SIGINT is ignored: the producer at the other end
// of the pipe got the same interrupt and we keep printing whatever it flushes
// on its way out. A second SIGINT stops the run.
func NotifyContext(parent context.Context, swallowFirst bool) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		swallow := swallowFirst
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == os.Interrupt && swallow {
					swallow = false
					log.Debug().Msg("Interrupt received while reading a pipe, draining input")
					continue
				}
				log.Info().Str("signal", sig.String()).Msg("Stopping on signal")
				cancel()
				return
			}
		}
	}()

	return ctx, cancel
}
