// Package csource extracts function signatures and include directives from C
// source text using patterns over a subset of the C grammar.
package csource

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	m "cobfus.dev/pkg/cobfus/internal/model"
)

// ErrSignatureNotFound is returned when no function definition matches.
var ErrSignatureNotFound = errors.New("no function found")

// declarationPattern matches a line starting with at least two words followed
// by a parenthesized parameter list. Whether the list ends a forward
// declaration is checked separately.
var declarationPattern = regexp.MustCompile(`(?m)^[ \t]*((?:[\w*]+ *?){2,}\([^!@#$+%^;]+?\))`)

var namePattern = regexp.MustCompile(`(\w+)\s*\(`)

var trailingIdentPattern = regexp.MustCompile(`(\w+)$`)

// forbiddenParamChars may not appear inside a parameter list.
const forbiddenParamChars = "!@#$+%^;"

// Signatures returns every function definition header found in source, each
// terminated with a semicolon.
func Signatures(source string) []string {
	var signatures []string

	lastEnd := 0

	for _, loc := range declarationPattern.FindAllStringSubmatchIndex(source, -1) {
		start, end := loc[2], loc[3]
		if start < lastEnd {
			continue
		}

		if followedBySemicolon(source[end:]) {
			end = extendDeclaration(source, end)
			if end < 0 {
				continue
			}
		}

		signatures = append(signatures, source[start:end]+";")
		lastEnd = end
	}

	return signatures
}

// extendDeclaration looks for a later closing paren that still belongs to the
// parameter list and is not followed by a semicolon. Returns -1 if none.
func extendDeclaration(source string, end int) int {
	for i := end; i < len(source); i++ {
		c := source[i]
		if strings.IndexByte(forbiddenParamChars, c) >= 0 {
			return -1
		}

		if c == ')' && !followedBySemicolon(source[i+1:]) {
			return i + 1
		}
	}

	return -1
}

func followedBySemicolon(rest string) bool {
	return strings.HasPrefix(strings.TrimLeft(rest, " \t\r\n\f\v"), ";")
}

// Extract returns the signature of the first function defined in source.
func Extract(source string) (m.FunctionSignature, error) {
	signatures := Signatures(source)
	if len(signatures) == 0 {
		return m.FunctionSignature{}, ErrSignatureNotFound
	}

	declaration := signatures[0]

	name, err := FunctionName(declaration)
	if err != nil {
		return m.FunctionSignature{}, err
	}

	return m.FunctionSignature{
		Name:        name,
		Declaration: declaration,
		ParamCount:  CountParams(declaration),
	}, nil
}

// FunctionName returns the identifier right before the parameter list.
func FunctionName(declaration string) (string, error) {
	match := namePattern.FindStringSubmatch(declaration)
	if match == nil {
		return "", fmt.Errorf("trouble finding function name in (%s): %w", declaration, ErrSignatureNotFound)
	}

	return match[1], nil
}

// CountParams counts the parameters of a declaration by its commas.
//
// Commas nested in parameter types (function pointers) are counted too.
func CountParams(declaration string) int {
	return strings.Count(declaration, ",") + 1
}

// ParsePrototype splits a declaration into return type, name and parameter
// types.
func ParsePrototype(declaration string) (m.Prototype, error) {
	decl := strings.TrimSuffix(strings.TrimSpace(declaration), ";")

	open := strings.Index(decl, "(")
	closing := strings.LastIndex(decl, ")")

	if open < 0 || closing < open {
		return m.Prototype{}, fmt.Errorf("malformed declaration (%s): %w", declaration, ErrSignatureNotFound)
	}

	head := strings.TrimSpace(decl[:open])

	name := trailingIdentPattern.FindString(head)
	if name == "" {
		return m.Prototype{}, fmt.Errorf("trouble finding function name in (%s): %w", declaration, ErrSignatureNotFound)
	}

	returnType := strings.TrimSpace(strings.TrimSuffix(head, name))
	if returnType == "" {
		return m.Prototype{}, fmt.Errorf("missing return type in (%s): %w", declaration, ErrSignatureNotFound)
	}

	return m.Prototype{
		ReturnType: returnType,
		Name:       name,
		Params:     paramTypes(decl[open+1 : closing]),
	}, nil
}

func paramTypes(list string) []string {
	list = strings.TrimSpace(list)
	if list == "" || list == "void" {
		return nil
	}

	parts := strings.Split(list, ",")
	types := make([]string, 0, len(parts))

	for _, part := range parts {
		types = append(types, paramType(part))
	}

	return types
}

// paramType drops the parameter name, keeping unnamed parameters intact.
func paramType(param string) string {
	param = strings.TrimSpace(param)

	name := trailingIdentPattern.FindString(param)
	if name == "" || isTypeKeyword(name) {
		return param
	}

	typ := strings.TrimSpace(strings.TrimSuffix(param, name))
	if typ == "" {
		return param
	}

	return typ
}

var typeKeywords = map[string]struct{}{
	"char": {}, "short": {}, "int": {}, "long": {}, "float": {}, "double": {},
	"signed": {}, "unsigned": {}, "_Bool": {}, "bool": {}, "void": {},
}

func isTypeKeyword(word string) bool {
	_, ok := typeKeywords[word]
	return ok
}

var qualifiers = map[string]struct{}{
	"const": {}, "volatile": {}, "static": {}, "inline": {}, "extern": {},
	"register": {}, "restrict": {},
}

// KindOf classifies a C type for argument parsing and result printing.
func KindOf(ctype string) m.ValueKind {
	if strings.Contains(ctype, "*") {
		return m.KindPointer
	}

	var words []string

	for _, word := range strings.Fields(ctype) {
		if _, ok := qualifiers[word]; !ok {
			words = append(words, word)
		}
	}

	if len(words) == 1 && words[0] == "void" {
		return m.KindVoid
	}

	for _, word := range words {
		switch {
		case word == "float" || word == "double":
			return m.KindFloat
		case word == "unsigned", word == "_Bool", word == "bool", word == "size_t",
			strings.HasPrefix(word, "uint"):
			return m.KindUnsigned
		}
	}

	return m.KindSigned
}
