package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/piwi3910/FoilCut/internal/model"
)

const inventoryFile = "inventory.json"

// DefaultInventoryPath is ~/.foilcut/inventory.json.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate inventory: %w", err)
	}
	return filepath.Join(home, ".foilcut", inventoryFile), nil
}

// SaveInventory writes inv as indented JSON, creating the directory when needed.
func SaveInventory(path string, inv model.Inventory) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create inventory dir: %w", err)
	}
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write inventory %s: %w", path, err)
	}
	return nil
}

func readInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("failed to decode inventory %s: %w", path, err)
	}
	return inv, nil
}

// LoadInventory reads the materials at path. A missing file is seeded with
// model.DefaultInventory so later edits have something to extend.
func LoadInventory(path string) (model.Inventory, error) {
	inv, err := readInventory(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		inv = model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	case err != nil:
		return model.Inventory{}, fmt.Errorf("failed to load inventory: %w", err)
	}
	return inv, nil
}

// LoadOrCreateInventory is LoadInventory with path defaulting to
// DefaultInventoryPath. It also returns the path it used.
func LoadOrCreateInventory(path string) (model.Inventory, string, error) {
	if path == "" {
		p, err := DefaultInventoryPath()
		if err != nil {
			return model.DefaultInventory(), "", err
		}
		path = p
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ExportInventory copies inv to a file the user picked.
func ExportInventory(path string, inv model.Inventory) error {
	return SaveInventory(path, inv)
}

// ImportInventory appends the materials in path to existing. Materials whose
// ID is already known are skipped, so importing the same file twice is a no-op.
// On error existing is returned unchanged.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	incoming, err := readInventory(path)
	if err != nil {
		return existing, fmt.Errorf("failed to import inventory: %w", err)
	}

	merged := model.Inventory{Materials: append([]model.Material(nil), existing.Materials...)}
	for _, m := range incoming.Materials {
		if merged.FindByID(m.ID) == nil {
			merged.Materials = append(merged.Materials, m)
		}
	}
	return merged, nil
}
