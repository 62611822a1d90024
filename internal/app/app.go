// Package app implements the application layer for recipe.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/recipe/internal/adapters/detector"
	"go.trai.ch/recipe/internal/adapters/linear"
	"go.trai.ch/recipe/internal/adapters/telemetry"
	"go.trai.ch/recipe/internal/adapters/tui"
	"go.trai.ch/recipe/internal/adapters/watcher"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// tracerName is the OpenTelemetry instrumentation name of the scheduler spans.
const tracerName = "recipe"

// App represents the main application logic.
type App struct {
	configLoader  ports.ConfigLoader
	logger        ports.Logger
	watcher       ports.Watcher
	fingerprinter *watcher.Fingerprinter

	stdout         io.Writer
	stderr         io.Writer
	teaOptions     []tea.ProgramOption
	debounceWindow time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	w ports.Watcher,
	fingerprinter *watcher.Fingerprinter,
) *App {
	return &App{
		configLoader:   loader,
		logger:         log,
		watcher:        w,
		fingerprinter:  fingerprinter,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput redirects task output and renderer messages.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithDebounceWindow sets how long watch mode waits for file events to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounceWindow = d
	return a
}

// RunOptions configuration for the Run and Watch methods.
type RunOptions struct {
	Debug       bool
	OutputMode  string
	Concurrency int
	ConfigPath  string
}

// Run loads the project file and executes the aggregate registered as name.
func (a *App) Run(ctx context.Context, name string, opts RunOptions) error {
	mode, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return err
	}
	if opts.Debug {
		a.logger.SetDebug(true)
	}

	setup, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	agg, err := setup.Registry.Lookup(name)
	if err != nil {
		return err
	}

	return a.runAggregate(ctx, agg, mode, opts.Concurrency)
}

// runAggregate executes agg once and logs the report summary.
func (a *App) runAggregate(ctx context.Context, agg *domain.Aggregate, mode detector.OutputMode, concurrency int) error {
	report, err := a.execute(ctx, agg, mode, concurrency)
	if report != nil && report.Total() > 0 {
		a.logger.Info(report.Summary(), "aggregate", agg.Name())
	}
	if err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

func (a *App) execute(
	ctx context.Context,
	agg *domain.Aggregate,
	mode detector.OutputMode,
	concurrency int,
) (*scheduler.Report, error) {
	renderer := a.newRenderer(ctx, detector.ResolveMode(detector.DetectEnvironment(), mode))

	tp := setupOTel(telemetry.NewBridge(renderer))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	tracer := telemetry.NewOTelTracer(tracerName).WithRenderer(renderer)
	sched := scheduler.NewScheduler(tracer, a.logger, scheduler.WithConcurrency(concurrency))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	var report *scheduler.Report
	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()
		var err error
		report, err = sched.Run(gctx, agg)
		return err
	})

	err := g.Wait()
	return report, err
}

func (a *App) newRenderer(ctx context.Context, mode detector.OutputMode) ports.Renderer {
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		return tui.NewRenderer(model, opts...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}

// setupOTel installs a tracer provider whose spans are forwarded to the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}
