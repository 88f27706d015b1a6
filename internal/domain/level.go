package domain

import (
	"fmt"
	"strings"

	"cobfus.dev/pkg/cobfus/internal/domain/techniques"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

// ObfuscationLevel is a fixed, ordered pipeline of techniques.
type ObfuscationLevel struct {
	Severity   int
	Name       string
	Techniques []techniques.Technique
	// PreservesObject is set when the level must not change the compiled
	// object, only the text.
	PreservesObject bool
}

// Obfuscate applies every technique in order, each one on the output of the
// previous.
func (l ObfuscationLevel) Obfuscate(source string) string {
	for _, technique := range l.Techniques {
		source = technique.Apply(source)
	}

	return source
}

// Info describes the level for display.
func (l ObfuscationLevel) Info() m.LevelInfo {
	names := make([]string, 0, len(l.Techniques))
	for _, technique := range l.Techniques {
		names = append(names, technique.Name())
	}

	return m.LevelInfo{
		Severity:        l.Severity,
		Name:            l.Name,
		Techniques:      names,
		PreservesObject: l.PreservesObject,
	}
}

func (l ObfuscationLevel) String() string {
	return fmt.Sprintf("Level (%d) uses (%s)", l.Severity, l.Name)
}

// Available severities.
const (
	LevelPassthrough  = 0
	LevelHarderToRead = 5
	LevelReplacement  = 10
)

var levels = []ObfuscationLevel{
	{
		Severity:        LevelPassthrough,
		Name:            "PassthroughObfuscator",
		Techniques:      []techniques.Technique{techniques.Passthrough{}},
		PreservesObject: true,
	},
	{
		Severity:        LevelHarderToRead,
		Name:            "HarderToRead",
		Techniques:      []techniques.Technique{techniques.RemoveInsignificantWhitespace{}},
		PreservesObject: true,
	},
	{
		Severity: LevelReplacement,
		Name:     "ReplacementObfuscator",
		Techniques: []techniques.Technique{
			techniques.NewRewriteXorAssignment(),
			techniques.NewRewriteChainedAddition(),
		},
	},
}

// Levels returns the level table in ascending severity.
func Levels() []ObfuscationLevel {
	out := make([]ObfuscationLevel, len(levels))
	copy(out, levels)

	return out
}

// LevelFor returns the level registered for severity.
func LevelFor(severity int) (ObfuscationLevel, error) {
	for _, level := range levels {
		if level.Severity == severity {
			return level, nil
		}
	}

	return ObfuscationLevel{}, fmt.Errorf("%w: %d (available: %s)", ErrUnknownLevel, severity, severities())
}

// DescribeLevels renders one "Level (N) uses (Name)" line per level.
func DescribeLevels() string {
	lines := make([]string, 0, len(levels))
	for _, level := range levels {
		lines = append(lines, level.String())
	}

	return strings.Join(lines, "\n")
}

func severities() string {
	values := make([]string, 0, len(levels))
	for _, level := range levels {
		values = append(values, fmt.Sprintf("%d", level.Severity))
	}

	return strings.Join(values, ", ")
}
