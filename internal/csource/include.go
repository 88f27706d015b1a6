package csource

import (
	"fmt"
	"regexp"
)

var includePattern = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*include[ \t]*["<]([^">]+)[">]`)

// IncludeDirective returns the include line for lib, used as is.
func IncludeDirective(lib string) string {
	return fmt.Sprintf("#include <%s>", lib)
}

// Includes lists the libraries included by source, e.g. "stdlib.h".
func Includes(source string) []string {
	matches := includePattern.FindAllStringSubmatch(source, -1)

	includes := make([]string, 0, len(matches))
	for _, match := range matches {
		includes = append(includes, match[1])
	}

	return includes
}

// IsLibIncluded reports whether lib is included, by exact name.
func IsLibIncluded(source, lib string) bool {
	for _, include := range Includes(source) {
		if include == lib {
			return true
		}
	}

	return false
}

// InsertLib prepends an include for lib unless it is already present.
func InsertLib(source, lib string) string {
	if IsLibIncluded(source, lib) {
		return source
	}

	return IncludeDirective(lib) + "\n" + source
}
