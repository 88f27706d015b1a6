package domain

import "errors"

var (
	// ErrUnknownLevel is returned for a severity missing from the level table.
	ErrUnknownLevel = errors.New("unknown obfuscation level")
	// ErrUnknownExample is returned for a name missing from the corpus.
	ErrUnknownExample = errors.New("unknown example")
	// ErrDuplicateModule is returned when a module or object name is reused
	// within one runner.
	ErrDuplicateModule = errors.New("module already compiled")
	// ErrModuleNotFound is returned when running a module that was never
	// compiled.
	ErrModuleNotFound = errors.New("module not compiled")
	// ErrFunctionNotFound is returned when a compiled module does not expose
	// the requested function.
	ErrFunctionNotFound = errors.New("function not exposed by module")
	// ErrInvalidModuleName is returned for names that cannot be used as
	// artifact file names.
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrUnsupportedType is returned for parameter types the invocation
	// driver cannot convert from a command line argument.
	ErrUnsupportedType = errors.New("unsupported parameter type")
	// ErrUnsupportedArgument is returned for Go values that cannot be passed
	// to a compiled function.
	ErrUnsupportedArgument = errors.New("unsupported argument")
	// ErrPathNotFound is returned when an input path does not exist.
	ErrPathNotFound = errors.New("trouble finding path")
	// ErrVerificationFailed is returned when an equivalence or binary
	// property does not hold.
	ErrVerificationFailed = errors.New("verification failed")
)
