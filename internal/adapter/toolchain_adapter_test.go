package adapter

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "cobfus.dev/pkg/cobfus/internal/model"
)

func lookPath(t *testing.T, name string) string {
	t.Helper()

	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available: %v", name, err)
	}

	return path
}

func TestLocalToolchainAdapter_Defaults(t *testing.T) {
	a := NewLocalToolchainAdapter()

	assert.Equal(t, "gcc", a.compiler)
	assert.Equal(t, "strip", a.strip)
	assert.Equal(t, DefaultToolchainTimeout, a.timeout)
}

func TestLocalToolchainAdapter_Execute(t *testing.T) {
	echo := lookPath(t, "echo")
	a := NewLocalToolchainAdapter()

	out, err := a.Execute(context.Background(), m.Path(echo), "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestLocalToolchainAdapter_ExecuteFailure(t *testing.T) {
	falseBin := lookPath(t, "false")
	a := NewLocalToolchainAdapter()

	_, err := a.Execute(context.Background(), m.Path(falseBin))
	require.Error(t, err)

	var toolchainErr *ToolchainError
	require.True(t, errors.As(err, &toolchainErr))
	assert.Equal(t, "execute", toolchainErr.Op)
	assert.Contains(t, toolchainErr.Command, "false")
}

func TestLocalToolchainAdapter_Timeout(t *testing.T) {
	sleep := lookPath(t, "sleep")
	a := NewLocalToolchainAdapterWithConfig(ToolchainConfig{Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := a.Execute(context.Background(), m.Path(sleep), "5")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestLocalToolchainAdapter_CompileAndRun(t *testing.T) {
	lookPath(t, "gcc")

	a := NewLocalToolchainAdapter()
	ctx := context.Background()
	program := m.Path(filepath.Join(t.TempDir(), "hello.bin"))

	source := []byte("#include <stdio.h>\nint main(void) { printf(\"42\\n\"); return 0; }\n")
	require.NoError(t, a.CompileExecutable(ctx, source, program))

	out, err := a.Execute(ctx, program)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestLocalToolchainAdapter_CompileErrorIsPassedThrough(t *testing.T) {
	lookPath(t, "gcc")

	a := NewLocalToolchainAdapter()
	err := a.CompileObject(context.Background(), []byte("int f( {"), m.Path(filepath.Join(t.TempDir(), "bad.o")))
	require.Error(t, err)

	var toolchainErr *ToolchainError
	require.True(t, errors.As(err, &toolchainErr))
	assert.Equal(t, "compile object", toolchainErr.Op)
	assert.NotEmpty(t, strings.TrimSpace(toolchainErr.Output))
}

func TestLocalToolchainAdapter_CompileObjectAndStrip(t *testing.T) {
	lookPath(t, "gcc")
	lookPath(t, "strip")

	a := NewLocalToolchainAdapter()
	ctx := context.Background()
	object := m.Path(filepath.Join(t.TempDir(), "sum.o"))

	require.NoError(t, a.CompileObject(ctx, []byte("int sum(int a, int b) { return a + b; }\n"), object))

	before, err := os.Stat(string(object))
	require.NoError(t, err)

	require.NoError(t, a.Strip(ctx, object))

	after, err := os.Stat(string(object))
	require.NoError(t, err)
	assert.LessOrEqual(t, after.Size(), before.Size())
}

func TestToolchainError_Message(t *testing.T) {
	err := &ToolchainError{Op: "compile", Command: "gcc -xc -", Output: "error: boom\n", Err: errors.New("exit status 1")}

	assert.Equal(t, "compile failed (gcc -xc -): exit status 1\nerror: boom", err.Error())
	assert.Equal(t, "exit status 1", errors.Unwrap(err).Error())
}
