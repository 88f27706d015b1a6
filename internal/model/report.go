package model

// VerifyReport is the outcome of checking one example at one level.
type VerifyReport struct {
	Example           string   `yaml:"example"`
	Severity          int      `yaml:"level"`
	LevelName         string   `yaml:"level_name"`
	Args              []string `yaml:"args"`
	Original          string   `yaml:"original"`
	Obfuscated        string   `yaml:"obfuscated"`
	Equivalent        bool     `yaml:"equivalent"`
	ObjectIdentical   bool     `yaml:"object_identical"`
	ExpectedIdentical bool     `yaml:"expected_identical"`
	DiffSections      []string `yaml:"diff_sections,omitempty"`
	Error             string   `yaml:"error,omitempty"`
}

// Passed reports whether the run succeeded, results matched and, for levels
// expected to keep the object unchanged, the objects are identical.
func (r VerifyReport) Passed() bool {
	if r.Error != "" || !r.Equivalent {
		return false
	}

	return !r.ExpectedIdentical || r.ObjectIdentical
}
