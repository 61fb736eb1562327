package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/pathbench/cli/config"
	"github.com/justapithecus/pathbench/cli/reader"
	"github.com/justapithecus/pathbench/cli/render"
	"github.com/justapithecus/pathbench/log"
	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/runtime"
	"github.com/justapithecus/pathbench/solver"
	"github.com/justapithecus/pathbench/types"
)

// runOptions is the merged flag and config-file input of bench and check.
type runOptions struct {
	mode      types.Mode
	graph     string
	queries   int
	nodes     int64
	seed      uint64
	timeout   time.Duration
	parallel  int
	workDir   string
	reportDir string
	format    runtime.ReportFormat

	solvers   []solver.Spec
	reference *solver.Spec

	storage         config.StorageConfig
	adapter         config.AdapterConfig
	metricsTextfile string

	verbose bool
	// logger overrides the default stderr logger (for testing).
	logger *log.Logger
}

// runOutcome is what a finished run left behind.
type runOutcome struct {
	report      *types.Report
	reportPath  string
	archivePath string
}

// loadRunOptions merges the config file with flags. Flags that were set
// explicitly win over config values; config values win over flag defaults.
func loadRunOptions(c *cli.Context, mode types.Mode) (*runOptions, error) {
	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return nil, err
	}

	opts := &runOptions{
		mode:      mode,
		graph:     c.String("graph"),
		queries:   c.Int("queries"),
		seed:      pick(c, "seed", c.Uint64, cfg.Seed),
		timeout:   pick(c, "timeout", c.Duration, cfg.Timeout.Duration),
		parallel:  pick(c, "parallel", c.Int, cfg.Parallel),
		workDir:   pick(c, "work-dir", c.String, cfg.WorkDir),
		reportDir: pick(c, "report-dir", c.String, cfg.Report.Dir),
		solvers:   cfg.SolverSpecs(),
		storage:   cfg.Storage,
		adapter:   cfg.Adapter,
		verbose:   c.Bool("verbose"),
	}
	if mode == types.ModeValidation {
		opts.nodes = c.Int64("nodes")
	}

	opts.format, err = runtime.ParseReportFormat(pick(c, "report-format", c.String, cfg.Report.Format))
	if err != nil {
		return nil, err
	}
	opts.metricsTextfile = pick(c, "metrics-textfile", c.String, cfg.Metrics.Textfile)

	for _, v := range c.StringSlice("solver") {
		spec, err := parseSolverFlag(v)
		if err != nil {
			return nil, err
		}
		opts.solvers = append(opts.solvers, spec)
	}

	if mode == types.ModeValidation {
		switch {
		case c.IsSet("reference"):
			spec, err := parseSolverFlag(c.String("reference"))
			if err != nil {
				return nil, err
			}
			opts.reference = &spec
		case cfg.Reference != nil:
			spec := cfg.Reference.Spec()
			opts.reference = &spec
		}
	}

	mergeStorageFlags(c, &opts.storage)
	return opts, nil
}

// pick returns the flag value when it was set explicitly, else the config
// value when non-zero, else the flag default.
func pick[T comparable](c *cli.Context, name string, get func(string) T, fromConfig T) T {
	var zero T
	if !c.IsSet(name) && fromConfig != zero {
		return fromConfig
	}
	return get(name)
}

func mergeStorageFlags(c *cli.Context, s *config.StorageConfig) {
	if c.IsSet("lode-backend") {
		s.Backend = c.String("lode-backend")
	}
	if c.IsSet("lode-path") {
		s.Path = c.String("lode-path")
	}
	if c.IsSet("lode-dataset") {
		s.Dataset = c.String("lode-dataset")
	}
	if c.IsSet("lode-s3-region") {
		s.Region = c.String("lode-s3-region")
	}
	if c.IsSet("lode-s3-endpoint") {
		s.Endpoint = c.String("lode-s3-endpoint")
	}
	if c.IsSet("lode-s3-path-style") {
		s.S3PathStyle = c.Bool("lode-s3-path-style")
	}
}

func (o *runOptions) validate() error {
	if o.queries < 0 {
		return fmt.Errorf("--queries must be >= 0, got %d", o.queries)
	}
	if o.parallel < 1 {
		return fmt.Errorf("--parallel must be >= 1, got %d", o.parallel)
	}
	if o.timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", o.timeout)
	}
	if o.mode == types.ModeValidation {
		if o.nodes < 1 {
			return fmt.Errorf("--nodes must be >= 1, got %d", o.nodes)
		}
		if o.reference == nil {
			return fmt.Errorf("check needs a reference solver (--reference id=path or reference in config)")
		}
	}
	switch o.storage.Backend {
	case "", "fs", "s3":
	default:
		return fmt.Errorf("unknown storage backend %q (want fs or s3)", o.storage.Backend)
	}
	if o.storage.Backend != "" && o.storage.Path == "" {
		return fmt.Errorf("storage backend %s needs --lode-path", o.storage.Backend)
	}
	return nil
}

// runAction returns the shared action of bench and check.
func runAction(mode types.Mode) cli.ActionFunc {
	return func(c *cli.Context) error {
		opts, err := loadRunOptions(c, mode)
		if err != nil {
			return cli.Exit(fmt.Sprintf("pathbench: %v", err), exitInvalidInput)
		}

		r, err := render.NewRenderer(c.String("format"))
		if err != nil {
			return cli.Exit(err.Error(), exitInvalidInput)
		}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		outcome, err := executeRun(ctx, opts)
		if err != nil {
			return exitError(err)
		}

		if !c.Bool("quiet") {
			fmt.Fprintf(os.Stderr, "report saved to %s\n", outcome.reportPath)
			if err := r.Render(reader.NewInspectResponse(outcome.report, outcome.reportPath)); err != nil {
				return err
			}
		}
		return nil
	}
}

// executeRun performs one run end to end: prepare solvers, run, save the
// report, then archive, notify and export metrics. Nothing is written
// when the run fails or is cancelled.
func executeRun(ctx context.Context, opts *runOptions) (*runOutcome, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(opts.graph); err != nil {
		return nil, fmt.Errorf("graph file %s: %w", opts.graph, err)
	}

	meta := runtime.NewRunMeta(opts.mode)
	logger := opts.logger
	if logger == nil {
		logger = log.NewLogger(meta, opts.verbose)
	}
	defer logger.Sync()

	backend := opts.storage.Backend
	if backend == "" {
		backend = "none"
	}
	collector := metrics.NewCollector(string(opts.mode), backend, meta.RunID)

	solvers, reference, err := prepareSolvers(ctx, opts)
	if err != nil {
		return nil, err
	}

	orchestrator, err := runtime.NewRunOrchestrator(&runtime.RunConfig{
		RunMeta:   meta,
		GraphPath: opts.graph,
		Queries:   opts.queries,
		NodeLimit: opts.nodes,
		Seed:      opts.seed,
		Timeout:   opts.timeout,
		Parallel:  opts.parallel,
		WorkDir:   opts.workDir,
		Solvers:   solvers,
		Reference: reference,
		Collector: collector,
		Logger:    logger,
		Verbose:   opts.verbose,
	})
	if err != nil {
		return nil, err
	}

	report, err := orchestrator.Execute(ctx)
	if err != nil {
		return nil, err
	}

	path, err := runtime.NewReportWriter(opts.reportDir, opts.format, collector).Write(report)
	if err != nil {
		return nil, err
	}
	logger.Info("report saved", map[string]any{"path": path})
	outcome := &runOutcome{report: report, reportPath: path}

	if opts.storage.Backend != "" {
		outcome.archivePath, err = archiveReport(ctx, opts, report, path, collector)
		if err != nil {
			return nil, err
		}
		logger.Info("report archived", map[string]any{"partition": outcome.archivePath})
	}

	if opts.adapter.Type != "" {
		if err := notify(ctx, opts.adapter, report, path, outcome.archivePath); err != nil {
			logger.Warn("run notification failed", map[string]any{"adapter": opts.adapter.Type, "error": err.Error()})
		}
	}

	if opts.metricsTextfile != "" {
		if err := writeTextfile(collector, opts.metricsTextfile); err != nil {
			logger.Warn("metrics textfile write failed", map[string]any{"path": opts.metricsTextfile, "error": err.Error()})
		}
	}

	return outcome, nil
}

// prepareSolvers builds and checks every executable, then wraps them as
// process solvers. The reference, if any, is prepared with the others so
// its id must be distinct.
func prepareSolvers(ctx context.Context, opts *runOptions) ([]solver.Solver, solver.Solver, error) {
	specs := opts.solvers
	if opts.reference != nil {
		specs = append(append([]solver.Spec(nil), specs...), *opts.reference)
	}
	if len(opts.solvers) == 0 {
		return nil, nil, &solver.BuildError{SolverID: "-", Reason: "nothing to run", Err: solver.ErrNoSolvers}
	}
	if err := solver.PrepareAll(ctx, specs); err != nil {
		return nil, nil, err
	}

	pcfg := solver.ProcessConfig{Timeout: opts.timeout}
	solvers := solver.NewSolvers(opts.solvers, pcfg)
	var reference solver.Solver
	if opts.reference != nil {
		reference = solver.NewSolvers([]solver.Spec{*opts.reference}, pcfg)[0]
	}
	return solvers, reference, nil
}

// writeTextfile writes the metrics file atomically next to its target.
func writeTextfile(collector *metrics.Collector, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return collector.WriteTextfile(path)
}
