package model

// CompiledModule is a source unit compiled into a runnable artifact.
type CompiledModule struct {
	Name        string
	Source      string
	Declaration string
	Prototype   Prototype
	Binary      Path
}

// ObjectArtifact is a stripped object file.
type ObjectArtifact struct {
	Name    string
	Path    Path
	Content []byte
}

// ObjectComparison holds the outcome of comparing two stripped objects.
type ObjectComparison struct {
	Identical bool
	// DiffSections lists ELF sections whose content differs. Empty when the
	// objects are identical or could not be parsed as ELF.
	DiffSections []string
}

// LevelInfo describes an obfuscation level for display.
type LevelInfo struct {
	Severity        int
	Name            string
	Techniques      []string
	PreservesObject bool
}
