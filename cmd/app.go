package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"logpretty/config"
	"logpretty/internal/formatter"
	"logpretty/internal/logging"
	"logpretty/internal/service"
	"logpretty/internal/source"
	"logpretty/internal/style"
	"logpretty/internal/terminal"
)

const (
	startTimeout = 5 * time.Second
	stopTimeout  = 5 * time.Second
)

// Output is where formatted blocks go. File is set when W is an *os.File so
// color detection can look at it.
type Output struct {
	W    io.Writer
	File *os.File
}

func run(parent context.Context, cfg *config.Config, out Output) error {
	if parent == nil {
		parent = context.Background()
	}
	swallowFirst := readsStdin(cfg.Input.Paths) && terminal.IsPipe(os.Stdin)
	ctx, stop := terminal.NotifyContext(parent, swallowFirst)
	defer stop()

	var pipeline *Pipeline
	app := newApp(cfg, out, fx.Populate(&pipeline))
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(ctx, startTimeout)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	var runErr error
	select {
	case runErr = <-pipeline.Done():
	case <-ctx.Done():
		runErr = ctx.Err()
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}
	return runErr
}

// readsStdin reports whether any input is standard input.
func readsStdin(paths []string) bool {
	if len(paths) == 0 {
		return true
	}
	for _, path := range paths {
		if path == "" || path == source.Stdin {
			return true
		}
	}
	return false
}

func newApp(cfg *config.Config, out Output, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		fx.WithLogger(logging.NewFxLogger),
		fx.Supply(cfg, out),
		fx.Provide(
			NewPainter,
			NewFormatter,
			service.NewPrettyService,
			NewPipeline,
		),
		fx.Invoke(RegisterPipeline),
	}
	return fx.New(append(opts, extra...)...)
}

// --- Factory Functions ---

func NewPainter(cfg *config.Config, out Output) style.Painter {
	return style.Resolve(cfg.Output.Color, out.File)
}

func NewFormatter(painter style.Painter) *formatter.Formatter {
	return formatter.New(painter)
}

// Pipeline streams the configured inputs to the output once the app starts.
type Pipeline struct {
	svc      service.PrettyService
	paths    []string
	out      io.Writer
	cancel   context.CancelFunc
	done     chan error
	finished chan struct{}
}

func NewPipeline(cfg *config.Config, svc service.PrettyService, out Output) *Pipeline {
	return &Pipeline{
		svc:      svc,
		paths:    cfg.Input.Paths,
		out:      out.W,
		cancel:   func() {},
		done:     make(chan error, 1),
		finished: make(chan struct{}),
	}
}

// Done delivers the result of the run, exactly once.
func (p *Pipeline) Done() <-chan error {
	return p.done
}

func (p *Pipeline) run(ctx context.Context) {
	startTime := time.Now()
	stats, err := p.svc.RunAll(ctx, p.paths, p.out)
	log.Debug().
		Int("inputs", stats.Inputs).
		Int64("lines", stats.Lines).
		Int64("bytes_written", stats.BytesWritten).
		Dur("duration", time.Since(startTime)).
		Msg("Pipeline finished")
	p.done <- err
	close(p.finished)
}

// --- Invoker Functions ---

func RegisterPipeline(lc fx.Lifecycle, p *Pipeline) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			p.cancel = cancel
			log.Debug().Strs("inputs", p.paths).Msg("Starting pipeline")
			go p.run(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.cancel()
			// let the stream flush what it already formatted
			select {
			case <-p.finished:
			case <-ctx.Done():
				log.Warn().Msg("Pipeline did not stop in time, buffered output may be lost")
			}
			return nil
		},
	})
}
