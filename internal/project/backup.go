package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/piwi3910/FoilCut/internal/model"
)

// BackupVersion is written into every backup. Only backups of the same major
// version can be restored.
const BackupVersion = "1.1.0"

var ErrBackupVersion = errors.New("unsupported backup version")

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Inventory model.Inventory `json:"inventory"`
	Jobs      []JobFile       `json:"jobs,omitempty"`
}

// ExportAllData writes the configuration, the material inventory and any job
// files to a single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, inv model.Inventory, jobs ...JobFile) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Inventory: inv,
		Jobs:      jobs,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// Config keys missing from the backup keep their default values and materials
// with a repeated ID are dropped. The caller applies the result.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if major(backup.Version) != major(BackupVersion) {
		return BackupData{}, fmt.Errorf("%w: %s", ErrBackupVersion, backup.Version)
	}

	seen := make(map[string]bool, len(backup.Inventory.Materials))
	materials := make([]model.Material, 0, len(backup.Inventory.Materials))
	for _, m := range backup.Inventory.Materials {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		materials = append(materials, m)
	}
	backup.Inventory.Materials = materials
	return backup, nil
}

func major(version string) string {
	m, _, _ := strings.Cut(strings.TrimPrefix(version, "v"), ".")
	return m
}

// ReadJobDir reads every job file in dir, sorted by file name.
func ReadJobDir(dir string) ([]JobFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read job directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := isYAML(e.Name()); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	jobs := make([]JobFile, 0, len(names))
	for _, name := range names {
		jf, err := ReadJobFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, jf)
	}
	return jobs, nil
}

// RestoreJobs writes the backed up jobs into dir as YAML files and returns their paths.
func (b BackupData) RestoreJobs(dir string) ([]string, error) {
	paths := make([]string, 0, len(b.Jobs))
	for _, jf := range b.Jobs {
		path := filepath.Join(dir, JobFileName(jf.Name))
		if err := WriteJobFile(path, jf); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// JobFileName turns a job name into a safe YAML file name.
func JobFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "job"
	}
	return name + ".yaml"
}
