package techniques

import (
	"regexp"

	"cobfus.dev/pkg/cobfus/internal/csource"
)

// NewRewriteChainedAddition rewrites each pair of added words into nested
// negations: a + b + c + d becomes (-(-a + (-b))) + (-(-c + (-d))).
func NewRewriteChainedAddition() Technique {
	return replacing{
		name:        "chained-addition",
		pattern:     regexp.MustCompile(`(\w+)\s*\+\s*(\w+)(\s*)`),
		replacement: "(-(-${1} + (-${2})))${3}",
	}
}

// NewRewriteXorAssignment rewrites x = a ^ b; with AND, OR and NOT. Only a
// single XOR per assignment is matched.
func NewRewriteXorAssignment() Technique {
	return replacing{
		name:        "xor-assignment",
		pattern:     regexp.MustCompile(`(\w+)\s*=\s*(\w+)\s*\^\s*(\w+)\s*;`),
		replacement: "${1} = (~${2} & ${3}) | (${2} & ~${3});",
	}
}

// randomSupportLib declares rand().
const randomSupportLib = "stdlib.h"

// RewriteAdditionViaRandomOffset rewrites x = a + b; into a sequence going
// through a runtime random value. The source must declare r, and a + r must
// not overflow.
type RewriteAdditionViaRandomOffset struct {
	substitution replacing
}

// NewRewriteAdditionViaRandomOffset builds the technique.
func NewRewriteAdditionViaRandomOffset() RewriteAdditionViaRandomOffset {
	return RewriteAdditionViaRandomOffset{
		substitution: replacing{
			name:        "random-offset-addition",
			pattern:     regexp.MustCompile(`(\w+)\s*=\s*(\w+)\s*\+\s*(\w+)\s*;`),
			replacement: "r = rand(); ${1} = ${2} + r; ${1} = ${1} + ${3}; ${1} = ${1} - r;",
		},
	}
}

// Name implements Technique.
func (t RewriteAdditionViaRandomOffset) Name() string { return t.substitution.Name() }

// Apply implements Technique.
func (t RewriteAdditionViaRandomOffset) Apply(source string) string {
	return t.EnsureSupport(t.Substitute(source))
}

// Substitute rewrites the assignments. Running it twice rewrites the already
// rewritten statements again.
func (t RewriteAdditionViaRandomOffset) Substitute(source string) string {
	return t.substitution.Apply(source)
}

// EnsureSupport adds the include declaring rand() unless present. Safe to
// run any number of times.
func (t RewriteAdditionViaRandomOffset) EnsureSupport(source string) string {
	return csource.InsertLib(source, randomSupportLib)
}
