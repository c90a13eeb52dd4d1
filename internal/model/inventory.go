package model

import "github.com/google/uuid"

// JointType is how two neighbouring strips are joined.
type JointType string

const (
	JointWelded JointType = "welded" // Hot-air welded overlap
	JointButt   JointType = "butt"   // Edge to edge, no overlap
)

// Material is a liner product that can be selected for a job.
type Material struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Family     string    `json:"family" yaml:"family"`
	NarrowOnly bool      `json:"narrow_only" yaml:"narrow_only"` // Only produced in the narrow width
	Joint      JointType `json:"joint" yaml:"joint"`
	Structural bool      `json:"structural" yaml:"structural"` // Anti-slip tread foil for stairs and shallow floors
}

// NewMaterial creates a new Material with a generated ID.
func NewMaterial(name, family string, narrowOnly bool, joint JointType, structural bool) Material {
	return Material{
		ID:         uuid.New().String()[:8],
		Name:       name,
		Family:     family,
		NarrowOnly: narrowOnly,
		Joint:      joint,
		Structural: structural,
	}
}

// NarrowWidthOnly reports whether the material may only be cut at the narrow
// width. Structural foil always is.
func (m Material) NarrowWidthOnly() bool {
	return m.NarrowOnly || m.Structural
}

// Overlaps returns the weld overlap bounds this material allows between strips.
// Butt-jointed materials never overlap.
func (m Material) Overlaps(s Settings) (minOverlap, maxOverlap float64) {
	if m.Joint == JointButt {
		return 0, 0
	}
	return s.MinOverlap, s.MaxOverlap
}

// Inventory holds the materials known to the application.
type Inventory struct {
	Materials []Material `json:"materials"`
}

// DefaultInventory returns an inventory populated with common liner products.
func DefaultInventory() Inventory {
	return Inventory{
		Materials: []Material{
			NewMaterial("Reinforced PVC 1.5mm", "pvc", false, JointWelded, false),
			NewMaterial("Reinforced PVC 1.5mm Printed", "pvc", true, JointWelded, false),
			NewMaterial("Reinforced PVC 2.0mm", "pvc", false, JointWelded, false),
			NewMaterial("Anti-slip PVC 1.5mm", "anti-slip", true, JointWelded, true),
			NewMaterial("Anti-slip Tread 2.0mm", "anti-slip", true, JointButt, true),
		},
	}
}

// FindByID returns a pointer to the material with the given ID, or nil.
func (inv *Inventory) FindByID(id string) *Material {
	for i := range inv.Materials {
		if inv.Materials[i].ID == id {
			return &inv.Materials[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first material with the given name, or nil.
func (inv *Inventory) FindByName(name string) *Material {
	for i := range inv.Materials {
		if inv.Materials[i].Name == name {
			return &inv.Materials[i]
		}
	}
	return nil
}

// Lookup resolves a reference that may be either an ID or a name.
func (inv *Inventory) Lookup(ref string) *Material {
	if m := inv.FindByID(ref); m != nil {
		return m
	}
	return inv.FindByName(ref)
}

// Names returns the material names in inventory order.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.Materials))
	for i, m := range inv.Materials {
		names[i] = m.Name
	}
	return names
}

// Structural returns the structural materials.
func (inv *Inventory) Structural() []Material {
	var out []Material
	for _, m := range inv.Materials {
		if m.Structural {
			out = append(out, m)
		}
	}
	return out
}
