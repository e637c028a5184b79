package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"AlgoSentinel/internal/model"
)

// LoadReport reads the last saved report. Returns nil without error if the file doesn't exist.
func LoadReport(filePath string) (*model.Report, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

// SaveReport writes the report to a JSON file, creating the parent directory.
func SaveReport(filePath string, report *model.Report) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
