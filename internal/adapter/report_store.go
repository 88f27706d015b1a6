package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "cobfus.dev/pkg/cobfus/internal/model"
)

// ReportStore persists verification reports.
type ReportStore interface {
	SaveReports(ctx context.Context, path m.Path, reports []m.VerifyReport) error
	LoadReports(ctx context.Context, path m.Path) ([]m.VerifyReport, error)
}

type reportFile struct {
	Version int              `yaml:"version"`
	Reports []m.VerifyReport `yaml:"reports"`
}

const reportFileVersion = 1

// YAMLReportStore stores reports as a single YAML document.
type YAMLReportStore struct{}

// NewReportStore constructs the YAML-backed ReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReports writes reports to path, creating parent directories.
func (s *YAMLReportStore) SaveReports(_ context.Context, path m.Path, reports []m.VerifyReport) error {
	data, err := yaml.Marshal(reportFile{Version: reportFileVersion, Reports: reports})
	if err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}

	return nil
}

// LoadReports reads reports written by SaveReports.
func (s *YAMLReportStore) LoadReports(_ context.Context, path m.Path) ([]m.VerifyReport, error) {
	// #nosec G304 - path is the report location chosen by the user
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}

	var file reportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}

	if file.Version != reportFileVersion {
		return nil, fmt.Errorf("unsupported report version %d", file.Version)
	}

	return file.Reports, nil
}
