package techniques

import (
	"regexp"
	"strings"
)

// structuralPattern matches a structural token with the whitespace around it.
var structuralPattern = regexp.MustCompile(`\s*([\n=+\-*^,){};]|/)\s*`)

// RemoveInsignificantWhitespace drops whitespace around structural tokens
// while keeping the source compilable. Whitespace between two words is kept.
type RemoveInsignificantWhitespace struct{}

// Name implements Technique.
func (RemoveInsignificantWhitespace) Name() string { return "remove-whitespace" }

// Apply implements Technique.
func (RemoveInsignificantWhitespace) Apply(source string) string {
	var b strings.Builder

	b.Grow(len(source))

	pos := 0

	for pos < len(source) {
		loc := structuralPattern.FindStringSubmatchIndex(source[pos:])
		if loc == nil {
			break
		}

		start, end := pos+loc[0], pos+loc[1]
		tokenStart, tokenEnd := pos+loc[2], pos+loc[3]

		b.WriteString(source[pos:start])

		// A slash touching a star delimits a comment and is kept, then
		// scanning resumes right after it. Leading whitespace collapses to a
		// new line when it holds one, and is kept otherwise.
		if source[tokenStart] == '/' && isCommentSlash(source, tokenStart) {
			if strings.ContainsRune(source[start:tokenStart], '\n') {
				b.WriteString("\n")
			} else {
				b.WriteString(source[start:tokenStart])
			}

			b.WriteString(source[tokenStart:tokenEnd])
			pos = tokenEnd

			continue
		}

		b.WriteString(source[tokenStart:tokenEnd])
		pos = end
	}

	b.WriteString(source[pos:])

	return b.String()
}

func isCommentSlash(source string, i int) bool {
	if i > 0 && source[i-1] == '*' {
		return true
	}

	return i+1 < len(source) && source[i+1] == '*'
}
