// Package techniques provides the text rewrite rules used to obfuscate a C
// function. Every technique is stateless and deterministic.
package techniques

import "regexp"

// Technique rewrites C source text into an equivalent form.
type Technique interface {
	Name() string
	Apply(source string) string
}

// Passthrough returns the source unchanged.
type Passthrough struct{}

// Name implements Technique.
func (Passthrough) Name() string { return "passthrough" }

// Apply implements Technique.
func (Passthrough) Apply(source string) string { return source }

// replacing applies a single regexp substitution over the whole source.
// Matches are found left to right and never overlap, so the output of one
// replacement is never matched again.
type replacing struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

func (r replacing) Name() string { return r.name }

func (r replacing) Apply(source string) string {
	return r.pattern.ReplaceAllString(source, r.replacement)
}
