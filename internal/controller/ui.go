// Package controller provides output adapters for displaying obfuscation and
// verification results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "cobfus.dev/pkg/cobfus/internal/model"
)

// UI defines the interface for presenting workflow output.
// Implementations can use different output methods (plain or styled text).
type UI interface {
	DisplayLevel(ctx context.Context, level m.LevelInfo)
	DisplaySource(ctx context.Context, source string)
	DisplayDiff(ctx context.Context, diff string)
	DisplayRun(ctx context.Context, label string, args []string)
	DisplayResult(ctx context.Context, value m.Value)
	DisplayMessage(ctx context.Context, format string, args ...interface{})
	DisplayLevels(ctx context.Context, levels []m.LevelInfo)
	DisplayExamples(ctx context.Context, examples []m.Example)
	DisplayVerifyReports(ctx context.Context, reports []m.VerifyReport)
}

// NewUI returns the UI used by the CLI. Headers are styled only when stdout is
// a terminal.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	return NewSimpleUI(cmd, WithStyle(isTTY))
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
