package domain

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"

	"cobfus.dev/pkg/cobfus/internal/adapter"
	"cobfus.dev/pkg/cobfus/internal/csource"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

const artifactPerm os.FileMode = 0o600

var moduleNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CompilationRunner compiles C sources inside one working directory and
// invokes the compiled functions.
type CompilationRunner interface {
	Compile(ctx context.Context, module, source, declaration string) error
	Run(ctx context.Context, module, function string, args ...any) (m.Value, error)
	CompileAndRun(ctx context.Context, module, source string, args ...any) (m.Value, error)
	CompareFunctions(ctx context.Context, sourceA, sourceB string, args ...any) (bool, error)
	CompileObject(ctx context.Context, module, source string) (m.ObjectArtifact, error)
	CompareObjects(a, b m.ObjectArtifact) m.ObjectComparison
	Modules() []m.CompiledModule
	WorkDir() m.Path
}

// RunnerFactory builds a runner bound to an exclusive working directory.
type RunnerFactory func(workDir m.Path) CompilationRunner

type runner struct {
	workDir     m.Path
	fsAdapter   adapter.SourceFSAdapter
	toolchain   adapter.ToolchainAdapter
	inspector   adapter.ObjectInspector
	modules     map[string]m.CompiledModule
	objects     map[string]m.ObjectArtifact
	comparisons int
}

// NewCompilationRunner constructs a runner writing its artifacts to workDir.
// The directory must exist and must not be shared with another runner.
func NewCompilationRunner(
	workDir m.Path,
	fsAdapter adapter.SourceFSAdapter,
	toolchain adapter.ToolchainAdapter,
	inspector adapter.ObjectInspector,
) CompilationRunner {
	return &runner{
		workDir:   workDir,
		fsAdapter: fsAdapter,
		toolchain: toolchain,
		inspector: inspector,
		modules:   make(map[string]m.CompiledModule),
		objects:   make(map[string]m.ObjectArtifact),
	}
}

// NewRunnerFactory returns a RunnerFactory sharing the given adapters.
func NewRunnerFactory(
	fsAdapter adapter.SourceFSAdapter,
	toolchain adapter.ToolchainAdapter,
	inspector adapter.ObjectInspector,
) RunnerFactory {
	return func(workDir m.Path) CompilationRunner {
		return NewCompilationRunner(workDir, fsAdapter, toolchain, inspector)
	}
}

func (r *runner) WorkDir() m.Path {
	return r.workDir
}

func (r *runner) Compile(ctx context.Context, module, source, declaration string) error {
	if err := validateModuleName(module); err != nil {
		return err
	}

	if _, ok := r.modules[module]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, module)
	}

	proto, err := csource.ParsePrototype(declaration)
	if err != nil {
		return err
	}

	program, err := buildDriver(module, source, proto)
	if err != nil {
		return err
	}

	sourcePath := r.fsAdapter.JoinPath(ctx, string(r.workDir), module+".c")
	if err := r.fsAdapter.WriteFile(ctx, sourcePath, []byte(program), artifactPerm); err != nil {
		return fmt.Errorf("write %s: %w", sourcePath, err)
	}

	binary := r.fsAdapter.JoinPath(ctx, string(r.workDir), module+".bin")
	if err := r.toolchain.CompileExecutable(ctx, []byte(program), binary); err != nil {
		slog.Error("compile failed", "module", module, "error", err)
		return fmt.Errorf("compile %s: %w", module, err)
	}

	r.modules[module] = m.CompiledModule{
		Name:        module,
		Source:      source,
		Declaration: declaration,
		Prototype:   proto,
		Binary:      binary,
	}

	slog.Debug("compiled module", "module", module, "binary", binary)

	return nil
}

func (r *runner) Run(ctx context.Context, module, function string, args ...any) (m.Value, error) {
	compiled, ok := r.modules[module]
	if !ok {
		return m.Value{}, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}

	if compiled.Prototype.Name != function {
		return m.Value{}, fmt.Errorf("%w: %s has no function %s", ErrFunctionNotFound, module, function)
	}

	argv, err := formatArgs(args)
	if err != nil {
		return m.Value{}, err
	}

	out, err := r.toolchain.Execute(ctx, compiled.Binary, argv...)
	if err != nil {
		slog.Error("run failed", "module", module, "function", function, "error", err)
		return m.Value{}, fmt.Errorf("run %s: %w", module, err)
	}

	return m.ParseValue(csource.KindOf(castType(compiled.Prototype.ReturnType)), out)
}

func (r *runner) CompileAndRun(ctx context.Context, module, source string, args ...any) (m.Value, error) {
	signature, err := csource.Extract(source)
	if err != nil {
		return m.Value{}, err
	}

	if err := r.Compile(ctx, module, source, signature.Declaration); err != nil {
		return m.Value{}, err
	}

	return r.Run(ctx, module, signature.Name, args...)
}

func (r *runner) CompareFunctions(ctx context.Context, sourceA, sourceB string, args ...any) (bool, error) {
	r.comparisons++
	prefix := "cmp" + strconv.Itoa(r.comparisons)

	a, err := r.CompileAndRun(ctx, prefix+"_a", sourceA, args...)
	if err != nil {
		return false, err
	}

	b, err := r.CompileAndRun(ctx, prefix+"_b", sourceB, args...)
	if err != nil {
		return false, err
	}

	slog.Debug("compared functions", "first", a.String(), "second", b.String())

	return a.Equal(b), nil
}

func (r *runner) CompileObject(ctx context.Context, module, source string) (m.ObjectArtifact, error) {
	if err := validateModuleName(module); err != nil {
		return m.ObjectArtifact{}, err
	}

	if _, ok := r.objects[module]; ok {
		return m.ObjectArtifact{}, fmt.Errorf("%w: object %s", ErrDuplicateModule, module)
	}

	path := r.fsAdapter.JoinPath(ctx, string(r.workDir), module+".o")

	if err := r.toolchain.CompileObject(ctx, []byte(source), path); err != nil {
		slog.Error("object compile failed", "module", module, "error", err)
		return m.ObjectArtifact{}, fmt.Errorf("compile object %s: %w", module, err)
	}

	if err := r.toolchain.Strip(ctx, path); err != nil {
		slog.Error("strip failed", "module", module, "error", err)
		return m.ObjectArtifact{}, fmt.Errorf("strip object %s: %w", module, err)
	}

	content, err := r.fsAdapter.ReadFile(ctx, path)
	if err != nil {
		return m.ObjectArtifact{}, fmt.Errorf("read object %s: %w", path, err)
	}

	artifact := m.ObjectArtifact{Name: module, Path: path, Content: content}
	r.objects[module] = artifact

	return artifact, nil
}

// CompareObjects reports byte identity. Differing sections are listed when
// both objects parse as ELF, and left empty otherwise.
func (r *runner) CompareObjects(a, b m.ObjectArtifact) m.ObjectComparison {
	if bytes.Equal(a.Content, b.Content) {
		return m.ObjectComparison{Identical: true}
	}

	sections, err := r.inspector.DiffSections(a.Content, b.Content)
	if err != nil {
		slog.Debug("object sections unavailable", "first", a.Name, "second", b.Name, "error", err)
		return m.ObjectComparison{}
	}

	return m.ObjectComparison{DiffSections: sections}
}

func (r *runner) Modules() []m.CompiledModule {
	out := make([]m.CompiledModule, 0, len(r.modules))
	for _, module := range r.modules {
		out = append(out, module)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

func validateModuleName(module string) error {
	if !moduleNamePattern.MatchString(module) {
		return fmt.Errorf("%w: %q", ErrInvalidModuleName, module)
	}

	return nil
}

// formatArgs renders Go values as command line arguments for the driver.
func formatArgs(args []any) ([]string, error) {
	out := make([]string, 0, len(args))

	for i, arg := range args {
		var text string

		switch v := arg.(type) {
		case string:
			text = v
		case bool:
			text = "0"
			if v {
				text = "1"
			}
		case int:
			text = strconv.FormatInt(int64(v), 10)
		case int8:
			text = strconv.FormatInt(int64(v), 10)
		case int16:
			text = strconv.FormatInt(int64(v), 10)
		case int32:
			text = strconv.FormatInt(int64(v), 10)
		case int64:
			text = strconv.FormatInt(v, 10)
		case uint:
			text = strconv.FormatUint(uint64(v), 10)
		case uint8:
			text = strconv.FormatUint(uint64(v), 10)
		case uint16:
			text = strconv.FormatUint(uint64(v), 10)
		case uint32:
			text = strconv.FormatUint(uint64(v), 10)
		case uint64:
			text = strconv.FormatUint(v, 10)
		case float32:
			text = strconv.FormatFloat(float64(v), 'g', -1, 32)
		case float64:
			text = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			return nil, fmt.Errorf("%w: argument %d of type %T", ErrUnsupportedArgument, i, arg)
		}

		out = append(out, text)
	}

	return out, nil
}
