package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ghscraper/pkg/logger"
	"ghscraper/pkg/models"
)

// Manager handles CSV output into a single directory
type Manager struct {
	outputDir string
	logger    logger.Logger
	written   map[string]int
	mu        sync.Mutex
}

// NewManager creates a new storage manager
func NewManager(outputDir string, log logger.Logger) (*Manager, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		logger:    logger.OrNop(log),
		written:   make(map[string]int),
	}, nil
}

// Save writes table to filename inside the output directory, replacing any
// previous content. An empty table produces a header-only file.
func (m *Manager) Save(filename string, table models.Table) error {
	path := filepath.Join(m.outputDir, filename)
	rows := table.Rows()

	// Temp file in the same directory so the rename stays on one filesystem
	out, err := os.CreateTemp(m.outputDir, "."+filename+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	w := csv.NewWriter(out)
	if err := w.Write(table.Header()); err != nil {
		out.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		out.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to write rows: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.written[filename] = len(rows)
	m.mu.Unlock()

	m.logger.InfoWithFields(fmt.Sprintf("Data saved to %s", path), map[string]interface{}{
		"file": path,
		"rows": len(rows),
	})
	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// Written returns how many data rows the last Save of filename wrote, and
// whether it was saved at all
func (m *Manager) Written(filename string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.written[filename]
	return n, ok
}
