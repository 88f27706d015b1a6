package domain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cobfus.dev/pkg/cobfus/internal/adapter"
	"cobfus.dev/pkg/cobfus/internal/adapter/mocks"
	"cobfus.dev/pkg/cobfus/internal/controller"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

const sum42 = `#include <stdint.h>

uint8_t f(uint32_t a, uint32_t b, uint32_t c)
{
    uint8_t res = a + b + c + 42;
    return res;
}
`

type workflowFixture struct {
	workflow  Workflow
	toolchain *mocks.MockToolchainAdapter
	inspector *mocks.MockObjectInspector
	out       *bytes.Buffer
	dir       string
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	toolchain := mocks.NewMockToolchainAdapter(t)
	inspector := mocks.NewMockObjectInspector(t)

	return &workflowFixture{
		workflow: NewWorkflow(
			fsAdapter,
			adapter.NewReportStore(),
			controller.NewSimpleUI(cmd),
			NewRunnerFactory(fsAdapter, toolchain, inspector),
		),
		toolchain: toolchain,
		inspector: inspector,
		out:       &out,
		dir:       t.TempDir(),
	}
}

func (f *workflowFixture) writeSource(t *testing.T, name, content string) m.Path {
	t.Helper()

	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return m.Path(path)
}

func TestWorkflow_ObfuscateMissingPath(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.workflow.Obfuscate(context.Background(), ObfuscateArgs{Source: m.Path(filepath.Join(f.dir, "missing.c"))})

	require.ErrorIs(t, err, ErrPathNotFound)
	assert.Equal(t, "trouble finding path ("+filepath.Join(f.dir, "missing.c")+")", err.Error())
	assert.Empty(t, f.out.String())
}

func TestWorkflow_ObfuscateUnknownLevel(t *testing.T) {
	f := newWorkflowFixture(t)
	source := f.writeSource(t, "sum.c", sum42)

	err := f.workflow.Obfuscate(context.Background(), ObfuscateArgs{Source: source, Level: 7})

	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestWorkflow_ObfuscatePrintsCode(t *testing.T) {
	f := newWorkflowFixture(t)
	source := f.writeSource(t, "sum.c", "A;\nB   C{\nD}\n")

	require.NoError(t, f.workflow.Obfuscate(context.Background(), ObfuscateArgs{Source: source, Level: LevelHarderToRead}))

	assert.Equal(t, ">> Level (5) uses (HarderToRead)\n\nA;B   C{D}\n\n", f.out.String())
}

func TestWorkflow_ObfuscateToFile(t *testing.T) {
	f := newWorkflowFixture(t)
	source := f.writeSource(t, "sum.c", sum42)
	output := filepath.Join(f.dir, "out.c")

	require.NoError(t, f.workflow.Obfuscate(context.Background(), ObfuscateArgs{
		Source: source,
		Level:  LevelReplacement,
		Output: m.Path(output),
	}))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "(-(-a + (-b)))")
	assert.NotContains(t, f.out.String(), "(-(-a")
	assert.Contains(t, f.out.String(), ">> Level (10) uses (ReplacementObfuscator)")
}

func TestWorkflow_ObfuscateToMissingDirectory(t *testing.T) {
	f := newWorkflowFixture(t)
	source := f.writeSource(t, "sum.c", sum42)

	err := f.workflow.Obfuscate(context.Background(), ObfuscateArgs{
		Source: source,
		Output: m.Path(filepath.Join(f.dir, "nope", "out.c")),
	})

	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestWorkflow_ObfuscateDiff(t *testing.T) {
	f := newWorkflowFixture(t)
	source := f.writeSource(t, "sum.c", sum42)

	require.NoError(t, f.workflow.Obfuscate(context.Background(), ObfuscateArgs{
		Source: source,
		Level:  LevelReplacement,
		Diff:   true,
	}))

	text := f.out.String()
	assert.Contains(t, text, "--- sum.c")
	assert.Contains(t, text, "+++ sum.c (level 10)")
	assert.Contains(t, text, "-    uint8_t res = a + b + c + 42;")
}

func TestWorkflow_ObfuscateRunsBothVersions(t *testing.T) {
	f := newWorkflowFixture(t)
	source := f.writeSource(t, "sum.c", sum42)
	ctx := context.Background()

	f.toolchain.On("CompileExecutable", ctx, mock.Anything, mock.Anything).Return(nil).Twice()
	f.toolchain.On("Execute", ctx, mock.Anything, []string{"1", "2", "3"}).Return("48\n", nil).Twice()

	require.NoError(t, f.workflow.Obfuscate(ctx, ObfuscateArgs{
		Source: source,
		Level:  LevelReplacement,
		Args:   []string{"1", "2", "3"},
	}))

	text := f.out.String()
	assert.Contains(t, text, ">> Run original with args (1, 2, 3)\n>> Results: 48\n")
	assert.Contains(t, text, ">> Run obfuscated with args (1, 2, 3)\n>> Results: 48\n")
}

func TestWorkflow_ObfuscateInvalidArgs(t *testing.T) {
	f := newWorkflowFixture(t)
	source := f.writeSource(t, "sum.c", sum42)

	err := f.workflow.Obfuscate(context.Background(), ObfuscateArgs{Source: source, Args: []string{"one"}})

	assert.ErrorIs(t, err, ErrUnsupportedArgument)
}

func TestWorkflow_DemoWithoutArgs(t *testing.T) {
	f := newWorkflowFixture(t)

	require.NoError(t, f.workflow.Demo(context.Background(), DemoArgs{}))

	text := f.out.String()
	for _, level := range Levels() {
		assert.Contains(t, text, ">> "+level.String())
	}

	assert.True(t, strings.HasSuffix(text, demoHint))
}

func TestWorkflow_DemoWithArgs(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	f.toolchain.On("CompileExecutable", ctx, mock.Anything, mock.Anything).Return(nil).Times(len(Levels()))
	f.toolchain.On("Execute", ctx, mock.Anything, []string{"1", "2", "3"}).Return("48\n", nil).Times(len(Levels()))

	require.NoError(t, f.workflow.Demo(ctx, DemoArgs{Example: "sum42.c", Args: []string{"1", "2", "3"}}))

	text := f.out.String()
	assert.Contains(t, text, ">> Run obfuscated level 0 with args (1, 2, 3)")
	assert.Contains(t, text, ">> Run obfuscated level 10 with args (1, 2, 3)")
	assert.NotContains(t, text, demoHint)
}

func TestWorkflow_DemoUnknownExample(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.workflow.Demo(context.Background(), DemoArgs{Example: "nope.c"})

	assert.ErrorIs(t, err, ErrUnknownExample)
}

func TestWorkflow_LevelsAndExamples(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	require.NoError(t, f.workflow.Levels(ctx))
	require.NoError(t, f.workflow.Examples(ctx))

	text := f.out.String()
	assert.Contains(t, text, "ReplacementObfuscator")
	assert.Contains(t, text, "sum42.c: uint8_t f(uint32_t a, uint32_t b, uint32_t c);")
}

// objectFromSource writes a fake object whose content only changes when the
// source was rewritten arithmetically.
func objectFromSource(args mock.Arguments) {
	content := "object"
	if strings.Contains(string(args.Get(1).([]byte)), "(-(-") {
		content = "rewritten"
	}

	_ = os.WriteFile(string(args.Get(2).(m.Path)), []byte(content), 0o600)
}

func expectVerifyToolchain(f *workflowFixture, obfuscatedResult string) {
	f.toolchain.On("CompileExecutable", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.toolchain.On("Execute", mock.Anything, mock.MatchedBy(func(p m.Path) bool {
		return filepath.Base(string(p)) == "original.bin"
	}), []string{"1", "2", "3"}).Return("48\n", nil)
	f.toolchain.On("Execute", mock.Anything, mock.MatchedBy(func(p m.Path) bool {
		return filepath.Base(string(p)) == "obfuscated.bin"
	}), []string{"1", "2", "3"}).Return(obfuscatedResult, nil)
	f.toolchain.On("CompileObject", mock.Anything, mock.Anything, mock.Anything).Run(objectFromSource).Return(nil)
	f.toolchain.On("Strip", mock.Anything, mock.Anything).Return(nil)
	f.inspector.On("DiffSections", mock.Anything, mock.Anything).Return([]string{".text"}, nil)
}

func TestWorkflow_VerifyWritesReport(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	reportPath := m.Path(filepath.Join(f.dir, "verify.yaml"))

	expectVerifyToolchain(f, "48\n")

	require.NoError(t, f.workflow.Verify(ctx, VerifyArgs{
		Examples: []string{"sum42.c"},
		Parallel: 2,
		Report:   reportPath,
	}))

	reports, err := adapter.NewReportStore().LoadReports(ctx, reportPath)
	require.NoError(t, err)
	require.Len(t, reports, len(Levels()))

	for i, level := range Levels() {
		report := reports[i]
		assert.Equal(t, level.Severity, report.Severity)
		assert.Equal(t, []string{"1", "2", "3"}, report.Args)
		assert.True(t, report.Passed(), "level %d: %+v", level.Severity, report)
		assert.Equal(t, level.PreservesObject, report.ObjectIdentical)
	}

	assert.Equal(t, []string{".text"}, reports[2].DiffSections)
	assert.Contains(t, f.out.String(), "3/3")
}

func TestWorkflow_VerifyDetectsDifferentResults(t *testing.T) {
	f := newWorkflowFixture(t)

	expectVerifyToolchain(f, "49\n")

	err := f.workflow.Verify(context.Background(), VerifyArgs{Examples: []string{"sum42.c"}})

	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Contains(t, f.out.String(), "sum42.c failed at level 0")
}

func TestWorkflow_VerifyUnknownExample(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.workflow.Verify(context.Background(), VerifyArgs{Examples: []string{"nope.c"}})

	assert.ErrorIs(t, err, ErrUnknownExample)
}

func TestVerificationFailures(t *testing.T) {
	levels := Levels()

	reports := []m.VerifyReport{
		{Example: "a.c", Severity: LevelPassthrough, Equivalent: true, ObjectIdentical: true, ExpectedIdentical: true},
		{Example: "a.c", Severity: LevelHarderToRead, Equivalent: true, ObjectIdentical: false, ExpectedIdentical: true},
		{Example: "a.c", Severity: LevelReplacement, Equivalent: true, ObjectIdentical: true},
	}

	assert.Equal(t, []string{
		"a.c failed at level 5",
		"level 10 left every object unchanged",
	}, verificationFailures(levels, reports))

	reports[1].ObjectIdentical = true
	reports = append(reports, m.VerifyReport{Example: "b.c", Severity: LevelReplacement, Equivalent: true})

	assert.Empty(t, verificationFailures(levels, reports))
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{"1", "-2", "18446744073709551615", "2.5"})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(-2), uint64(18446744073709551615), 2.5}, args)

	_, err = parseArgs([]string{"x"})
	assert.ErrorIs(t, err, ErrUnsupportedArgument)
}

func TestWorkflow_VerifyCorpusWithGCC(t *testing.T) {
	requireToolchain(t)

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	w := NewWorkflow(
		fsAdapter,
		adapter.NewReportStore(),
		controller.NewSimpleUI(cmd),
		NewRunnerFactory(fsAdapter, adapter.NewLocalToolchainAdapter(), adapter.NewELFObjectInspector()),
	)

	err := w.Verify(context.Background(), VerifyArgs{Parallel: 4})
	assert.NoError(t, err, out.String())
}
