package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/FoilCut/internal/model"
)

var (
	ErrUnknownMaterial   = errors.New("unknown material")
	ErrUnsupportedFormat = errors.New("unsupported job file format")
)

// JobFile is the on-disk form of a job. Materials are referenced by inventory ID or name.
type JobFile struct {
	Name               string                               `json:"name" yaml:"name"`
	Pool               model.Pool                           `json:"pool" yaml:"pool"`
	MainMaterial       string                               `json:"main_material,omitempty" yaml:"main_material,omitempty"`
	StructuralMaterial string                               `json:"structural_material,omitempty" yaml:"structural_material,omitempty"`
	Objective          string                               `json:"objective,omitempty" yaml:"objective,omitempty"`
	Overrides          map[model.SurfaceKey]model.RollWidth `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

func isYAML(path string) (bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true, nil
	case ".json":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// ReadJobFile reads a job from a .yaml, .yml or .json file.
func ReadJobFile(path string) (JobFile, error) {
	asYAML, err := isYAML(path)
	if err != nil {
		return JobFile{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return JobFile{}, fmt.Errorf("failed to read job file: %w", err)
	}

	var jf JobFile
	if asYAML {
		err = yaml.Unmarshal(data, &jf)
	} else {
		err = json.Unmarshal(data, &jf)
	}
	if err != nil {
		return JobFile{}, fmt.Errorf("failed to parse job file %s: %w", filepath.Base(path), err)
	}

	if jf.Name == "" {
		jf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return jf, nil
}

// WriteJobFile writes a job in the format given by the file extension.
func WriteJobFile(path string, jf JobFile) error {
	asYAML, err := isYAML(path)
	if err != nil {
		return err
	}
	var data []byte
	if asYAML {
		data, err = yaml.Marshal(jf)
	} else {
		data, err = json.MarshalIndent(jf, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve turns a job file into an optimizer job. Unset materials and objective
// fall back to the application defaults.
func (jf JobFile) Resolve(inv *model.Inventory, defaults model.AppConfig) (model.Job, error) {
	mainRef := jf.MainMaterial
	if mainRef == "" {
		mainRef = defaults.DefaultMainMaterial
	}
	main := inv.Lookup(mainRef)
	if main == nil {
		return model.Job{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownMaterial, mainRef, strings.Join(inv.Names(), ", "))
	}

	structRef := jf.StructuralMaterial
	if structRef == "" {
		structRef = defaults.DefaultStructuralMaterial
	}
	structural := inv.Lookup(structRef)
	if structural == nil {
		return model.Job{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownMaterial, structRef, strings.Join(inv.Names(), ", "))
	}
	if !structural.Structural {
		return model.Job{}, fmt.Errorf("%w: %q is not a structural material", ErrUnknownMaterial, structRef)
	}

	objRef := jf.Objective
	if objRef == "" {
		objRef = defaults.DefaultObjective
	}
	objective, err := model.ParseObjective(objRef)
	if err != nil {
		return model.Job{}, err
	}

	return model.Job{
		Name:               jf.Name,
		Pool:               jf.Pool,
		MainMaterial:       *main,
		StructuralMaterial: *structural,
		Objective:          objective,
		Overrides:          jf.Overrides,
	}, nil
}

// LoadJob reads and resolves a job file in one step.
func LoadJob(path string, inv *model.Inventory, defaults model.AppConfig) (model.Job, error) {
	jf, err := ReadJobFile(path)
	if err != nil {
		return model.Job{}, err
	}
	return jf.Resolve(inv, defaults)
}
