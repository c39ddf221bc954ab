package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	m "leela.dev/pkg/leela/internal/model"
)

const reportFileName = "report.yaml"

// ReportStore persists and retrieves run reports.
type ReportStore interface {
	Save(ctx context.Context, dir m.Path, report m.Report) error
	Load(ctx context.Context, dir m.Path) (m.Report, error)
}

// YAMLReportStore stores the report as report.yaml inside the output dir.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// Save writes the report, creating the output directory as needed.
func (s *YAMLReportStore) Save(_ context.Context, dir m.Path, report m.Report) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(string(dir), reportFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// Load reads a previously saved report.
func (s *YAMLReportStore) Load(_ context.Context, dir m.Path) (m.Report, error) {
	path := filepath.Join(string(dir), reportFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}

	return report, nil
}
