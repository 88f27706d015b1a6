// Package model defines the data structures shared by the rewrite engine and
// the compile harness.
package model

// Path represents a file system path.
type Path string

// FunctionSignature describes the function found in a source unit.
type FunctionSignature struct {
	Name string
	// Declaration is the function header terminated by a semicolon, as it
	// would appear in a header file.
	Declaration string
	ParamCount  int
}

// Prototype is a declaration split into its C types.
type Prototype struct {
	ReturnType string
	Name       string
	Params     []string
}

// Example is a bundled C function.
type Example struct {
	Name        string
	Source      string
	Declaration string
}
