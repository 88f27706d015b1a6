package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "cobfus.dev/pkg/cobfus/internal/model"
)

const (
	passLabel = "PASS"
	failLabel = "FAIL"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// SimpleUIOption configures a SimpleUI.
type SimpleUIOption func(*SimpleUI)

// WithStyle enables lipgloss styling of headers.
func WithStyle(enabled bool) SimpleUIOption {
	return func(s *SimpleUI) {
		s.styled = enabled
	}
}

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, options ...SimpleUIOption) *SimpleUI {
	s := &SimpleUI{cmd: cmd}
	for _, option := range options {
		option(s)
	}

	return s
}

// DisplayLevel prints the level banner.
func (s *SimpleUI) DisplayLevel(ctx context.Context, level m.LevelInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n\n", s.header(fmt.Sprintf(">> Level (%d) uses (%s)", level.Severity, level.Name)))
}

// DisplaySource prints a source unit followed by a blank line.
func (s *SimpleUI) DisplaySource(ctx context.Context, source string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n\n", source)
}

// DisplayDiff prints a unified diff.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if diff == "" {
		s.printf("No textual changes\n\n")
		return
	}

	s.printf("%s\n", diff)
}

// DisplayRun announces a function run.
func (s *SimpleUI) DisplayRun(ctx context.Context, label string, args []string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", s.header(fmt.Sprintf(">> Run %s with args (%s)", label, strings.Join(args, ", "))))
}

// DisplayResult prints the value returned by a run.
func (s *SimpleUI) DisplayResult(ctx context.Context, value m.Value) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf(">> Results: %s\n\n", value)
}

// DisplayMessage prints a formatted message as is.
func (s *SimpleUI) DisplayMessage(ctx context.Context, format string, args ...interface{}) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf(format, args...)
}

// DisplayLevels prints the level table.
func (s *SimpleUI) DisplayLevels(ctx context.Context, levels []m.LevelInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s", renderLevelsTable(levels))
}

func renderLevelsTable(levels []m.LevelInfo) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Level", "Name", "Techniques", "Object"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, level := range levels {
		object := "may change"
		if level.PreservesObject {
			object = "unchanged"
		}

		table.Append([]string{
			fmt.Sprintf("%d", level.Severity),
			level.Name,
			strings.Join(level.Techniques, ", "),
			object,
		})
	}

	table.Render()

	return tableBuffer.String()
}

// DisplayExamples prints one "name: declaration" line per example.
func (s *SimpleUI) DisplayExamples(ctx context.Context, examples []m.Example) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, example := range examples {
		s.printf("%s: %s\n", example.Name, example.Declaration)
	}
}

// DisplayVerifyReports prints the verification table with a pass count.
func (s *SimpleUI) DisplayVerifyReports(ctx context.Context, reports []m.VerifyReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderVerifyTable(reports))

	for _, report := range reports {
		if report.Error != "" {
			s.printf("%s level %d: %s\n", report.Example, report.Severity, s.fail(report.Error))
		}
	}
}

func renderVerifyTable(reports []m.VerifyReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Example", "Level", "Args", "Original", "Obfuscated", "Object", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	passed := 0

	for _, report := range reports {
		status := failLabel
		if report.Passed() {
			status = passLabel
			passed++
		}

		table.Append([]string{
			report.Example,
			fmt.Sprintf("%d", report.Severity),
			strings.Join(report.Args, ","),
			report.Original,
			report.Obfuscated,
			objectLabel(report),
			status,
		})
	}

	table.SetFooter([]string{"", "", "", "", "", "Passed", fmt.Sprintf("%d/%d", passed, len(reports))})
	table.Render()

	return tableBuffer.String()
}

func objectLabel(report m.VerifyReport) string {
	switch {
	case report.Error != "":
		return "-"
	case report.ObjectIdentical:
		return "identical"
	case len(report.DiffSections) > 0:
		return "differs (" + strings.Join(report.DiffSections, " ") + ")"
	default:
		return "differs"
	}
}

func (s *SimpleUI) header(text string) string {
	if !s.styled {
		return text
	}

	return headerStyle.Render(text)
}

func (s *SimpleUI) fail(text string) string {
	if !s.styled {
		return text
	}

	return failStyle.Render(text)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
