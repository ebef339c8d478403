package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a schedule and blocklist file.
// JSON files parse as well since the decoder accepts flow-style YAML.
type ImportSchema struct {
	Schedules   []ScheduleImport   `yaml:"schedules" json:"schedules"`
	BlockedApps []BlockedAppImport `yaml:"blocked_apps" json:"blocked_apps"`
}

// ScheduleImport defines one focus schedule. Start and End are HH:MM; Days
// takes anything ParseDaysOfWeek accepts plus "never".
type ScheduleImport struct {
	Name    string `yaml:"name" json:"name"`
	Start   string `yaml:"start" json:"start"`
	End     string `yaml:"end" json:"end"`
	Days    string `yaml:"days,omitempty" json:"days,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// BlockedAppImport defines a blocklist entry.
type BlockedAppImport struct {
	Package string `yaml:"package" json:"package"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// LoadImportSchema reads and parses an import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

// Marshal renders the schema as YAML.
func (s *ImportSchema) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
