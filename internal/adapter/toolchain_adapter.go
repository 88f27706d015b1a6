package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	m "cobfus.dev/pkg/cobfus/internal/model"
)

// DefaultToolchainTimeout bounds every compiler, strip and execution call.
const DefaultToolchainTimeout = 30 * time.Second

// ToolchainAdapter abstracts the native toolchain so the compile harness can
// be exercised without a real compiler.
type ToolchainAdapter interface {
	// CompileExecutable builds a runnable program from C source.
	CompileExecutable(ctx context.Context, source []byte, output m.Path) error

	// CompileObject compiles C source into a relocatable object file.
	CompileObject(ctx context.Context, source []byte, output m.Path) error

	// Strip removes the symbol table of an object in place.
	Strip(ctx context.Context, object m.Path) error

	// Execute runs a program and returns its standard output.
	Execute(ctx context.Context, program m.Path, args ...string) (string, error)
}

// ToolchainError reports a failed toolchain invocation. The output is passed
// through as produced by the tool.
type ToolchainError struct {
	Op      string
	Command string
	Output  string
	Err     error
}

func (e *ToolchainError) Error() string {
	msg := fmt.Sprintf("%s failed (%s): %v", e.Op, e.Command, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}

	return msg
}

func (e *ToolchainError) Unwrap() error {
	return e.Err
}

// ToolchainConfig selects the tools used by LocalToolchainAdapter.
type ToolchainConfig struct {
	Compiler string
	Strip    string
	Flags    []string
	Timeout  time.Duration
}

// LocalToolchainAdapter runs gcc-compatible tools with os/exec.
type LocalToolchainAdapter struct {
	compiler string
	strip    string
	flags    []string
	timeout  time.Duration
}

// NewLocalToolchainAdapter constructs a LocalToolchainAdapter using gcc and
// strip from PATH with the default timeout.
func NewLocalToolchainAdapter() *LocalToolchainAdapter {
	return NewLocalToolchainAdapterWithConfig(ToolchainConfig{})
}

// NewLocalToolchainAdapterWithConfig constructs a LocalToolchainAdapter,
// falling back to defaults for empty fields.
func NewLocalToolchainAdapterWithConfig(cfg ToolchainConfig) *LocalToolchainAdapter {
	a := &LocalToolchainAdapter{
		compiler: cfg.Compiler,
		strip:    cfg.Strip,
		flags:    append([]string(nil), cfg.Flags...),
		timeout:  cfg.Timeout,
	}

	if a.compiler == "" {
		a.compiler = "gcc"
	}

	if a.strip == "" {
		a.strip = "strip"
	}

	if a.timeout <= 0 {
		a.timeout = DefaultToolchainTimeout
	}

	return a
}

// CompileExecutable runs `gcc -xc - -o output`, reading source from stdin.
func (a *LocalToolchainAdapter) CompileExecutable(ctx context.Context, source []byte, output m.Path) error {
	args := append(append([]string{}, a.flags...), "-o", string(output), "-xc", "-")

	_, err := a.run(ctx, "compile", source, a.compiler, args...)

	return err
}

// CompileObject runs `gcc -c -o output -xc -`, reading source from stdin.
func (a *LocalToolchainAdapter) CompileObject(ctx context.Context, source []byte, output m.Path) error {
	args := append(append([]string{"-c"}, a.flags...), "-o", string(output), "-xc", "-")

	_, err := a.run(ctx, "compile object", source, a.compiler, args...)

	return err
}

// Strip runs `strip object`.
func (a *LocalToolchainAdapter) Strip(ctx context.Context, object m.Path) error {
	_, err := a.run(ctx, "strip", nil, a.strip, string(object))

	return err
}

// Execute runs program with args.
func (a *LocalToolchainAdapter) Execute(ctx context.Context, program m.Path, args ...string) (string, error) {
	return a.run(ctx, "execute", nil, string(program), args...)
}

func (a *LocalToolchainAdapter) run(ctx context.Context, op string, stdin []byte, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	commandLine := strings.Join(append([]string{name}, args...), " ")
	slog.Debug("running toolchain", "op", op, "command", commandLine)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}

		slog.Error("toolchain invocation failed", "op", op, "command", commandLine, "error", err)

		return stdout.String(), &ToolchainError{
			Op:      op,
			Command: commandLine,
			Output:  stdout.String() + stderr.String(),
			Err:     err,
		}
	}

	return stdout.String(), nil
}
