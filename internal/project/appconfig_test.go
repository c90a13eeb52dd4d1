package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/FoilCut/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := model.DefaultAppConfig()
	cfg.DefaultObjective = string(model.ObjectiveMinRolls)
	cfg.JSONLogs = true
	cfg.Settings.RollLength = 30

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.DefaultObjective != "minRolls" {
		t.Errorf("expected objective minRolls, got %s", loaded.DefaultObjective)
	}
	if !loaded.JSONLogs {
		t.Error("expected JSONLogs to be preserved")
	}
	if loaded.Settings.RollLength != 30 {
		t.Errorf("expected roll length 30, got %f", loaded.Settings.RollLength)
	}
	if loaded.Settings.NarrowWidth != 1.65 {
		t.Errorf("expected narrow width 1.65, got %s", loaded.Settings.NarrowWidth)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg != model.DefaultAppConfig() {
		t.Error("expected default config for missing file")
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("objective: minRolls\nsettings:\n  roll_length: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Settings.RollLength != 20 {
		t.Errorf("expected roll length 20, got %f", cfg.Settings.RollLength)
	}
	if cfg.Settings.WideWidth != 2.05 {
		t.Errorf("expected default wide width, got %s", cfg.Settings.WideWidth)
	}
	if cfg.DefaultMainMaterial != model.DefaultAppConfig().DefaultMainMaterial {
		t.Errorf("expected default main material, got %s", cfg.DefaultMainMaterial)
	}
}

func TestLoadAppConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("settings: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("expected config.yaml, got %s", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ".foilcut" {
		t.Errorf("expected .foilcut directory, got %s", filepath.Dir(path))
	}
}
