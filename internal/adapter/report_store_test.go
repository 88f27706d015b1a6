package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "cobfus.dev/pkg/cobfus/internal/model"
)

func TestYAMLReportStore_SaveAndLoad(t *testing.T) {
	store := NewReportStore()
	ctx := context.Background()
	path := m.Path(filepath.Join(t.TempDir(), "nested", "verify.yaml"))

	reports := []m.VerifyReport{
		{
			Example:           "sum42.c",
			Severity:          10,
			LevelName:         "ReplacementObfuscator",
			Args:              []string{"1", "2", "3"},
			Original:          "48",
			Obfuscated:        "48",
			Equivalent:        true,
			DiffSections:      []string{".text"},
			ExpectedIdentical: false,
		},
	}

	require.NoError(t, store.SaveReports(ctx, path, reports))

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Contains(t, string(data), "example: sum42.c")
	assert.Contains(t, string(data), "version: 1")

	loaded, err := store.LoadReports(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, reports, loaded)
}

func TestYAMLReportStore_LoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 7\nreports: []\n"), 0o600))

	_, err := NewReportStore().LoadReports(context.Background(), m.Path(path))
	require.Error(t, err)
}

func TestYAMLReportStore_LoadMissingFile(t *testing.T) {
	_, err := NewReportStore().LoadReports(context.Background(), m.Path(filepath.Join(t.TempDir(), "none.yaml")))
	require.Error(t, err)
}
