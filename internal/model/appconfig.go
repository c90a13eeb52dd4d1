package model

// AppConfig holds application-wide preferences and default job values.
// It is populated by viper from the config file, FOILCUT_* environment
// variables and command-line flags.
type AppConfig struct {
	// Defaults applied to jobs that leave them unset
	DefaultObjective          string `json:"objective" yaml:"objective" mapstructure:"objective"`
	DefaultMainMaterial       string `json:"main_material" yaml:"main_material" mapstructure:"main_material"`
	DefaultStructuralMaterial string `json:"structural_material" yaml:"structural_material" mapstructure:"structural_material"`

	// Paths and output
	InventoryPath string `json:"inventory_path" yaml:"inventory_path" mapstructure:"inventory_path"` // "" = ~/.foilcut/inventory.json
	JSONLogs      bool   `json:"json_logs" yaml:"json_logs" mapstructure:"json_logs"`
	Verbose       bool   `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	NoColor       bool   `json:"no_color" yaml:"no_color" mapstructure:"no_color"`

	// Telemetry
	OtelEndpoint  string `json:"otel_endpoint" yaml:"otel_endpoint" mapstructure:"otel_endpoint"`
	SkipTelemetry bool   `json:"skip_telemetry" yaml:"skip_telemetry" mapstructure:"skip_telemetry"`

	// Physical constants; keys missing from the config file keep DefaultSettings values
	Settings Settings `json:"settings" yaml:"settings" mapstructure:"settings"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching DefaultSettings().
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultObjective:          string(ObjectiveMinWaste),
		DefaultMainMaterial:       "Reinforced PVC 1.5mm",
		DefaultStructuralMaterial: "Anti-slip PVC 1.5mm",
		SkipTelemetry:             true,
		Settings:                  DefaultSettings(),
	}
}

// ResolvedSettings returns the configured settings, or DefaultSettings when none
// are set. Explicit zeros such as min_overlap: 0 are kept.
func (c AppConfig) ResolvedSettings() Settings {
	if c.Settings == (Settings{}) {
		return DefaultSettings()
	}
	return c.Settings
}
