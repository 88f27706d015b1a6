// Package corpus bundles example C functions used by the demo and verify
// commands.
package corpus

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"cobfus.dev/pkg/cobfus/internal/csource"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

//go:embed data/*.c
var files embed.FS

// DefaultExample is used by demo when no example is named.
const DefaultExample = "sum42.c"

// Examples returns every bundled example sorted by name.
func Examples() []m.Example {
	entries, err := fs.ReadDir(files, "data")
	if err != nil {
		panic(fmt.Sprintf("corpus: %v", err))
	}

	examples := make([]m.Example, 0, len(entries))

	for _, entry := range entries {
		example, err := load(entry.Name())
		if err != nil {
			panic(fmt.Sprintf("corpus: %v", err))
		}

		examples = append(examples, example)
	}

	sort.Slice(examples, func(i, j int) bool {
		return examples[i].Name < examples[j].Name
	})

	return examples
}

// Lookup returns the example with the given file name.
func Lookup(name string) (m.Example, bool) {
	example, err := load(name)
	if err != nil {
		return m.Example{}, false
	}

	return example, true
}

// Help lists examples as "name: declaration" lines.
func Help() string {
	lines := make([]string, 0)
	for _, example := range Examples() {
		lines = append(lines, fmt.Sprintf("%s: %s", example.Name, example.Declaration))
	}

	return strings.Join(lines, "\n")
}

func load(name string) (m.Example, error) {
	content, err := files.ReadFile(path.Join("data", name))
	if err != nil {
		return m.Example{}, err
	}

	sig, err := csource.Extract(string(content))
	if err != nil {
		return m.Example{}, fmt.Errorf("%s: %w", name, err)
	}

	return m.Example{
		Name:        name,
		Source:      string(content),
		Declaration: sig.Declaration,
	}, nil
}
