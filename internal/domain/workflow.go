package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"cobfus.dev/pkg/cobfus/internal/adapter"
	"cobfus.dev/pkg/cobfus/internal/controller"
	"cobfus.dev/pkg/cobfus/internal/corpus"
	"cobfus.dev/pkg/cobfus/internal/csource"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

const (
	outputPerm = 0o644

	runModule = "test"

	demoHint = "If you want to have the function run, please pass arguments according to function signature to the command\n"
)

// ObfuscateArgs holds the parameters of a single file obfuscation.
type ObfuscateArgs struct {
	Source m.Path
	Level  int
	// Output receives the obfuscated code instead of the terminal when set.
	Output m.Path
	// Args runs the original and the obfuscated function when not empty.
	Args []string
	Diff bool
}

// DemoArgs holds the parameters of a demo over one bundled example.
type DemoArgs struct {
	Example string
	Args    []string
}

// VerifyArgs holds the parameters of a corpus verification.
type VerifyArgs struct {
	// Examples restricts the run to the named examples; all when empty.
	Examples []string
	Parallel int
	// Report is written as YAML when set.
	Report m.Path
}

// Workflow is the entry point of every CLI command.
type Workflow interface {
	Obfuscate(ctx context.Context, args ObfuscateArgs) error
	Demo(ctx context.Context, args DemoArgs) error
	Verify(ctx context.Context, args VerifyArgs) error
	Levels(ctx context.Context) error
	Examples(ctx context.Context) error
}

type workflow struct {
	fsAdapter   adapter.SourceFSAdapter
	reportStore adapter.ReportStore
	ui          controller.UI
	newRunner   RunnerFactory
}

// NewWorkflow constructs a Workflow. Every run gets a fresh runner from
// newRunner bound to its own temporary directory.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	newRunner RunnerFactory,
) Workflow {
	return &workflow{
		fsAdapter:   fsAdapter,
		reportStore: reportStore,
		ui:          ui,
		newRunner:   newRunner,
	}
}

func (w *workflow) Obfuscate(ctx context.Context, args ObfuscateArgs) error {
	if err := w.checkPath(ctx, args.Source); err != nil {
		return err
	}

	level, err := LevelFor(args.Level)
	if err != nil {
		return err
	}

	runArgs, err := parseArgs(args.Args)
	if err != nil {
		return err
	}

	content, err := w.fsAdapter.ReadFile(ctx, args.Source)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Source, err)
	}

	source := string(content)
	obfuscated := w.obfuscateAtLevel(ctx, level, source, args.Output == "")

	if args.Output != "" {
		if err := w.checkPath(ctx, m.Path(filepath.Dir(string(args.Output)))); err != nil {
			return err
		}

		if err := w.fsAdapter.WriteFile(ctx, args.Output, []byte(obfuscated), outputPerm); err != nil {
			return fmt.Errorf("write %s: %w", args.Output, err)
		}

		slog.Info("obfuscated code written", "source", args.Source, "output", args.Output, "level", level.Severity)
	}

	if args.Diff {
		diff, err := unifiedDiff(filepath.Base(string(args.Source)), level, source, obfuscated)
		if err != nil {
			return err
		}

		w.ui.DisplayDiff(ctx, diff)
	}

	if len(runArgs) == 0 {
		return nil
	}

	if err := w.runFunction(ctx, "original", source, args.Args, runArgs); err != nil {
		return err
	}

	return w.runFunction(ctx, "obfuscated", obfuscated, args.Args, runArgs)
}

func (w *workflow) Demo(ctx context.Context, args DemoArgs) error {
	name := args.Example
	if name == "" {
		name = corpus.DefaultExample
	}

	example, ok := corpus.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s (available: %s)", ErrUnknownExample, name, exampleNames())
	}

	runArgs, err := parseArgs(args.Args)
	if err != nil {
		return err
	}

	for _, level := range Levels() {
		obfuscated := w.obfuscateAtLevel(ctx, level, example.Source, true)

		if len(runArgs) == 0 {
			continue
		}

		label := fmt.Sprintf("obfuscated level %d", level.Severity)
		if err := w.runFunction(ctx, label, obfuscated, args.Args, runArgs); err != nil {
			return err
		}
	}

	if len(runArgs) == 0 {
		w.ui.DisplayMessage(ctx, demoHint)
	}

	return nil
}

func (w *workflow) Levels(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	levels := Levels()
	infos := make([]m.LevelInfo, 0, len(levels))

	for _, level := range levels {
		infos = append(infos, level.Info())
	}

	w.ui.DisplayLevels(ctx, infos)

	return nil
}

func (w *workflow) Examples(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.ui.DisplayExamples(ctx, corpus.Examples())

	return nil
}

func (w *workflow) Verify(ctx context.Context, args VerifyArgs) error {
	examples, err := selectExamples(args.Examples)
	if err != nil {
		return err
	}

	levels := Levels()
	reports := make([]m.VerifyReport, len(examples)*len(levels))

	parallel := args.Parallel
	if parallel < 1 {
		parallel = 1
	}

	slog.Info("verifying corpus", "examples", len(examples), "levels", len(levels), "parallel", parallel)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, example := range examples {
		for j, level := range levels {
			index := i*len(levels) + j

			g.Go(func() error {
				reports[index] = w.verifyExample(gctx, example, level)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	w.ui.DisplayVerifyReports(ctx, reports)

	if args.Report != "" {
		if err := w.reportStore.SaveReports(ctx, args.Report, reports); err != nil {
			return fmt.Errorf("save reports: %w", err)
		}
	}

	failures := verificationFailures(levels, reports)
	for _, failure := range failures {
		w.ui.DisplayMessage(ctx, "%s\n", failure)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(failures, "; "))
	}

	return nil
}

func (w *workflow) verifyExample(ctx context.Context, example m.Example, level ObfuscationLevel) m.VerifyReport {
	report := m.VerifyReport{
		Example:           example.Name,
		Severity:          level.Severity,
		LevelName:         level.Name,
		ExpectedIdentical: level.PreservesObject,
	}

	signature, err := csource.Extract(example.Source)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	args := make([]any, signature.ParamCount)
	for i := range args {
		args[i] = i + 1
		report.Args = append(report.Args, strconv.Itoa(i+1))
	}

	err = w.withRunner(ctx, "cobfus-verify-*", func(runner CompilationRunner) error {
		obfuscated := level.Obfuscate(example.Source)

		original, err := runner.CompileAndRun(ctx, "original", example.Source, args...)
		if err != nil {
			return err
		}

		rewritten, err := runner.CompileAndRun(ctx, "obfuscated", obfuscated, args...)
		if err != nil {
			return err
		}

		report.Original = original.String()
		report.Obfuscated = rewritten.String()
		report.Equivalent = original.Equal(rewritten)

		originalObject, err := runner.CompileObject(ctx, "original", example.Source)
		if err != nil {
			return err
		}

		rewrittenObject, err := runner.CompileObject(ctx, "obfuscated", obfuscated)
		if err != nil {
			return err
		}

		cmp := runner.CompareObjects(originalObject, rewrittenObject)
		report.ObjectIdentical = cmp.Identical
		report.DiffSections = cmp.DiffSections

		return nil
	})
	if err != nil {
		slog.Error("verification run failed", "example", example.Name, "level", level.Severity, "error", err)
		report.Error = err.Error()
	}

	return report
}

// verificationFailures lists every broken property: a failed report, or a
// rewriting level that left every object of the corpus unchanged.
func verificationFailures(levels []ObfuscationLevel, reports []m.VerifyReport) []string {
	var failures []string

	changed := make(map[int]bool)
	ran := make(map[int]bool)

	for _, report := range reports {
		if !report.Passed() {
			failures = append(failures, fmt.Sprintf("%s failed at level %d", report.Example, report.Severity))
		}

		if report.Error == "" {
			ran[report.Severity] = true
			changed[report.Severity] = changed[report.Severity] || !report.ObjectIdentical
		}
	}

	for _, level := range levels {
		if !level.PreservesObject && ran[level.Severity] && !changed[level.Severity] {
			failures = append(failures, fmt.Sprintf("level %d left every object unchanged", level.Severity))
		}
	}

	return failures
}

func (w *workflow) obfuscateAtLevel(ctx context.Context, level ObfuscationLevel, source string, display bool) string {
	w.ui.DisplayLevel(ctx, level.Info())

	obfuscated := level.Obfuscate(source)
	if display {
		w.ui.DisplaySource(ctx, obfuscated)
	}

	return obfuscated
}

func (w *workflow) runFunction(ctx context.Context, label, source string, rawArgs []string, args []any) error {
	w.ui.DisplayRun(ctx, label, rawArgs)

	return w.withRunner(ctx, "cobfus-run-*", func(runner CompilationRunner) error {
		value, err := runner.CompileAndRun(ctx, runModule, source, args...)
		if err != nil {
			return err
		}

		w.ui.DisplayResult(ctx, value)

		return nil
	})
}

// withRunner hands fn a runner bound to a fresh temporary directory, removed
// afterwards.
func (w *workflow) withRunner(ctx context.Context, pattern string, fn func(CompilationRunner) error) error {
	dir, err := w.fsAdapter.CreateTempDir(ctx, pattern)
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	defer func() {
		if err := w.fsAdapter.RemoveAll(ctx, dir); err != nil {
			slog.Error("failed to remove temp dir", "dir", dir, "error", err)
		}
	}()

	return fn(w.newRunner(dir))
}

func (w *workflow) checkPath(ctx context.Context, path m.Path) error {
	if _, err := w.fsAdapter.FileInfo(ctx, path); err == nil {
		return nil
	}

	abs, err := w.fsAdapter.AbsPath(ctx, path)
	if err != nil {
		abs = path
	}

	return fmt.Errorf("%w (%s)", ErrPathNotFound, abs)
}

func unifiedDiff(name string, level ObfuscationLevel, original, obfuscated string) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(obfuscated),
		FromFile: name,
		ToFile:   fmt.Sprintf("%s (level %d)", name, level.Severity),
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", name, err)
	}

	return diff, nil
}

// parseArgs converts command line values to integers, or floats when they
// are not integral.
func parseArgs(raw []string) ([]any, error) {
	args := make([]any, 0, len(raw))

	for _, value := range raw {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			args = append(args, n)
			continue
		}

		if u, err := strconv.ParseUint(value, 10, 64); err == nil {
			args = append(args, u)
			continue
		}

		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrUnsupportedArgument, value)
		}

		args = append(args, f)
	}

	return args, nil
}

func selectExamples(names []string) ([]m.Example, error) {
	if len(names) == 0 {
		return corpus.Examples(), nil
	}

	examples := make([]m.Example, 0, len(names))

	for _, name := range names {
		example, ok := corpus.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownExample, name, exampleNames())
		}

		examples = append(examples, example)
	}

	return examples, nil
}

func exampleNames() string {
	examples := corpus.Examples()
	names := make([]string, 0, len(examples))

	for _, example := range examples {
		names = append(names, example.Name)
	}

	return strings.Join(names, ", ")
}
