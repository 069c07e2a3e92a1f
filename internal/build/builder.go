package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/fileroute/internal/config"
	"github.com/vango-dev/fileroute/internal/errors"
	"github.com/vango-dev/fileroute/pkg/router"
)

// Generated file names.
const (
	TreeFile      = "routes_tree_gen.go"
	StatelessFile = "routes_stateless_gen.go"
	StatefulFile  = "routes_stateful_gen.go"
)

// generatedHeader marks files owned by the generator.
var generatedHeader = []byte("// Code generated by fileroute. DO NOT EDIT.")

// File describes one generated file.
type File struct {
	// Name is the file name, e.g. routes_stateless_gen.go.
	Name string

	// Path is the full output path.
	Path string

	// Hash is the SHA-256 of the content.
	Hash string

	// Size is the content length in bytes.
	Size int

	// Changed reports whether the file was (re)written.
	Changed bool

	content []byte
}

// Result contains the outcome of a pass.
type Result struct {
	// Duration is how long the pass took.
	Duration time.Duration

	// Model is the validated routing model.
	Model *router.Model

	// Routes is the number of routes with at least one method.
	Routes int

	// Layouts is the number of registered layouts.
	Layouts int

	// Wrappers is the number of layout wrappers per mode.
	Wrappers int

	// Files are the generated files. Empty for check-only passes.
	Files []File

	// Removed lists stale generated files that were deleted.
	Removed []string

	// Warnings are problems that did not fail the pass.
	Warnings []*errors.Error

	// MetricsFile is the textfile metrics were written to, if any.
	MetricsFile string
}

// Options configures the builder.
type Options struct {
	// CheckOnly stops after validation.
	CheckOnly bool

	// DryRun renders files without writing them.
	DryRun bool

	// Logger receives progress logs. Default: slog.Default().
	Logger *slog.Logger

	// Tracer traces pass phases. Default: the global tracer provider.
	Tracer trace.Tracer

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder runs generation passes.
type Builder struct {
	config  *config.Config
	options Options
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics
}

// New creates a new builder.
func New(cfg *config.Config, options Options) *Builder {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := options.Tracer
	if tracer == nil {
		tracer = defaultTracer()
	}

	return &Builder{
		config:  cfg,
		options: options,
		logger:  logger,
		tracer:  tracer,
		metrics: newMetrics(),
	}
}

// Registry returns the registry holding the builder's metrics.
func (b *Builder) Registry() *prometheus.Registry {
	return b.metrics.registry
}

// Build runs a full pass: scan, validate, emit and write.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx, span := b.tracer.Start(ctx, "fileroute.pass")
	defer span.End()

	result, err := b.run(ctx)
	if err != nil {
		span.RecordError(err)
		b.metrics.passes.WithLabelValues("error").Inc()
		b.flushMetrics(nil)
		return nil, err
	}

	result.Duration = time.Since(start)
	b.metrics.passes.WithLabelValues("ok").Inc()
	if err := b.flushMetrics(result); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("fileroute.routes", result.Routes),
		attribute.Int("fileroute.layouts", result.Layouts),
	)
	b.logger.Info("route generation finished",
		"routes", result.Routes,
		"layouts", result.Layouts,
		"wrappers", result.Wrappers,
		"files", len(result.Files),
		"duration", result.Duration,
	)
	return result, nil
}

func (b *Builder) run(ctx context.Context) (*Result, error) {
	result := &Result{}

	importPath, err := b.config.RoutesImportPath()
	if err != nil {
		return nil, err
	}

	routesDir := b.config.RoutesPath()
	if info, err := os.Stat(routesDir); err != nil || !info.IsDir() {
		warning := errors.New("E201").
			WithDetail(routesDir).
			WithSuggestion("Create the directory or set paths.routes in " + config.ConfigFileName)
		result.Warnings = append(result.Warnings, warning)
		b.logger.Warn("routes directory not found, generating an empty router", "dir", routesDir)
	}

	var model *router.Model
	err = b.phase(ctx, "scan", func(ctx context.Context, span trace.Span) error {
		b.progress("Scanning routes...")
		entries := router.NewScanner(routesDir, b.logger).Scan()
		model = router.NewModelBuilder(routesDir, importPath, b.logger).Build(entries)
		span.SetAttributes(attribute.Int("fileroute.entries", len(entries)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Model = model
	result.Routes = len(model.ActiveRoutes())
	result.Layouts = model.Layouts.Len()

	err = b.phase(ctx, "validate", func(ctx context.Context, span trace.Span) error {
		b.progress("Validating routes...")
		v := router.NewValidator(model, router.ValidatorOptions{
			Strict:              b.config.Routing.Strict,
			RejectStaticCapture: b.config.Routing.ConflictMode == config.ConflictStrict,
		})
		verr := v.Validate()

		b.metrics.observeProblems(v.Warnings())
		for _, w := range v.Warnings() {
			result.Warnings = append(result.Warnings, fromValidation(routesDir, w))
		}

		var multi *router.MultiValidationError
		if stderrors.As(verr, &multi) {
			b.metrics.observeProblems(multi.Errors)
			return validationError(routesDir, multi)
		}
		return verr
	})
	if err != nil {
		return nil, err
	}

	if b.options.CheckOnly {
		b.metrics.observeModel(model, countWrappers(model))
		return result, nil
	}

	var files []File
	err = b.phase(ctx, "emit", func(ctx context.Context, span trace.Span) error {
		b.progress("Generating router code...")
		files, err = b.emit(model)
		span.SetAttributes(attribute.Int("fileroute.files", len(files)))
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Wrappers = countWrappers(model)
	b.metrics.observeModel(model, result.Wrappers)

	if b.options.DryRun {
		result.Files = files
		return result, nil
	}

	err = b.phase(ctx, "write", func(ctx context.Context, span trace.Span) error {
		b.progress("Writing generated files...")
		if err := b.write(files); err != nil {
			return err
		}
		removed, err := b.removeStale(files)
		result.Removed = removed
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Files = files
	return result, nil
}

// emit renders every configured file.
func (b *Builder) emit(model *router.Model) ([]File, error) {
	opts, err := b.generatorOptions(model)
	if err != nil {
		return nil, err
	}
	gen := router.NewGenerator(model, opts)

	outDir := b.config.OutputPath()
	var files []File

	tree, err := gen.GenerateTree()
	if err != nil {
		return nil, generateError(err)
	}
	files = append(files, newFile(outDir, TreeFile, tree))

	for _, m := range b.modes() {
		name := StatelessFile
		if m == router.ModeStateful {
			name = StatefulFile
		}
		src, err := gen.Generate(m)
		if err != nil {
			return nil, generateError(err)
		}
		files = append(files, newFile(outDir, name, src))
	}
	return files, nil
}

func (b *Builder) generatorOptions(model *router.Model) (router.Options, error) {
	opts := router.Options{
		Package:     b.config.Output.Package,
		StateType:   b.config.State.Type,
		StateImport: b.config.State.Import,
	}

	if b.config.OutputPath() == b.config.RoutesPath() {
		// Generated files join the routes package, so they must use its name.
		if pkg := model.Tree.Root().Package; pkg != "" && pkg != opts.Package {
			b.logger.Debug("using package name of the routes directory", "package", pkg, "configured", opts.Package)
			opts.Package = pkg
		}
	} else {
		outImport, err := b.config.OutputImportPath()
		if err != nil {
			return opts, err
		}
		opts.OutputImport = outImport
	}

	if len(b.modes()) > 1 {
		tag := b.config.Output.StatefulTag
		opts.BuildTags = map[router.Mode]string{
			router.ModeStateless: "!" + tag,
			router.ModeStateful:  tag,
		}
	}
	return opts, nil
}

func (b *Builder) modes() []router.Mode {
	var modes []router.Mode
	if b.config.HasMode(config.ModeStateless) {
		modes = append(modes, router.ModeStateless)
	}
	if b.config.HasMode(config.ModeStateful) {
		modes = append(modes, router.ModeStateful)
	}
	return modes
}

// write writes each file whose content changed. A failed write aborts the
// pass; files already written stay in place.
func (b *Builder) write(files []File) error {
	if err := os.MkdirAll(b.config.OutputPath(), 0755); err != nil {
		return errors.New("E401").WithFile(b.config.OutputPath()).Wrap(err)
	}

	for i := range files {
		f := &files[i]
		if existing, err := hashFile(f.Path); err == nil && existing == f.Hash {
			b.metrics.filesSkipped.Inc()
			b.logger.Debug("generated file unchanged", "file", f.Path)
			continue
		}

		if err := os.WriteFile(f.Path, f.content, 0644); err != nil {
			return errors.New("E401").WithFile(f.Path).Wrap(err)
		}
		f.Changed = true
		b.metrics.filesWritten.Inc()
		b.logger.Debug("wrote generated file", "file", f.Path, "bytes", f.Size)
	}
	return nil
}

// removeStale deletes generated files of modes that are no longer
// configured. Only files carrying the generated header are removed.
func (b *Builder) removeStale(files []File) ([]string, error) {
	keep := make(map[string]bool, len(files))
	for _, f := range files {
		keep[f.Name] = true
	}

	var removed []string
	for _, name := range []string{StatelessFile, StatefulFile} {
		if keep[name] {
			continue
		}
		path := filepath.Join(b.config.OutputPath(), name)
		if !isGenerated(path) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, errors.New("E401").WithFile(path).Wrap(err)
		}
		removed = append(removed, path)
		b.logger.Info("removed stale generated file", "file", path)
	}
	return removed, nil
}

func (b *Builder) flushMetrics(result *Result) error {
	path := b.config.MetricsPath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.New("E403").WithFile(path).Wrap(err)
	}
	if err := b.metrics.writeTextfile(path); err != nil {
		return errors.New("E403").WithFile(path).Wrap(err)
	}
	if result != nil {
		result.MetricsFile = path
	}
	return nil
}

func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

func newFile(dir, name string, content []byte) File {
	sum := sha256.Sum256(content)
	return File{
		Name:    name,
		Path:    filepath.Join(dir, name),
		Hash:    hex.EncodeToString(sum[:]),
		Size:    len(content),
		content: content,
	}
}

// Content returns the generated source.
func (f File) Content() []byte {
	return f.content
}

// countWrappers returns the number of wrappers one mode's file contains.
func countWrappers(model *router.Model) int {
	n := 0
	for _, r := range model.ActiveRoutes() {
		if len(model.Chain(r)) > 0 {
			n += r.Methods.Len()
		}
	}
	return n
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func isGenerated(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, len(generatedHeader))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, generatedHeader)
}

func generateError(err error) error {
	var fe *router.FormatError
	if stderrors.As(err, &fe) {
		return errors.New("E402").WithFile(fe.File).Wrap(fe.Err)
	}
	return errors.New("E402").Wrap(err)
}

// validationError converts validation failures to a coded error. The code
// is the shared code of every failure, or E300 when they differ.
func validationError(routesDir string, multi *router.MultiValidationError) *errors.Error {
	code := multi.Errors[0].Type.Code()
	for _, e := range multi.Errors[1:] {
		if e.Type.Code() != code {
			code = "E300"
			break
		}
	}

	detail := ""
	for _, e := range multi.Errors {
		detail += router.FormatValidationError(e)
	}
	err := errors.New(code).WithDetail(detail).Wrap(multi)
	locate(err, routesDir, multi.Errors[0])
	return err
}

func fromValidation(routesDir string, v router.ValidationError) *errors.Error {
	detail := v.Message
	if v.Details != "" {
		detail += ": " + v.Details
	}
	err := errors.New(v.Type.Code()).WithDetail(detail)
	locate(err, routesDir, v)
	return err
}

// locate points err at the first file of v. A known line adds the source
// lines around it.
func locate(err *errors.Error, routesDir string, v router.ValidationError) {
	if len(v.Files) == 0 {
		return
	}
	if v.Line > 0 {
		err.WithLocation(filepath.Join(routesDir, filepath.FromSlash(v.Files[0])), v.Line, v.Column)
		return
	}
	err.WithFile(v.Files[0])
}

// String summarizes the result for logs.
func (r *Result) String() string {
	changed := 0
	for _, f := range r.Files {
		if f.Changed {
			changed++
		}
	}
	return fmt.Sprintf("%d routes, %d layouts, %d/%d files written", r.Routes, r.Layouts, changed, len(r.Files))
}
