package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Settings is the user-editable settings.json.
type Settings struct {
	General GeneralSettings `json:"general"`
}

type GeneralSettings struct {
	// LogRetentionCount is how many debug logs to keep; negative keeps all.
	LogRetentionCount int `json:"log_retention_count"`
	// RecordHistory stores every conversion in the state database.
	RecordHistory bool `json:"record_history"`
	// LockWrites takes an advisory lock around each file write.
	LockWrites bool `json:"lock_writes"`
}

func DefaultSettings() *Settings {
	return &Settings{
		General: GeneralSettings{
			LogRetentionCount: 5,
			RecordHistory:     true,
			LockWrites:        true,
		},
	}
}

// LoadSettings reads settings.json. Missing keys keep their defaults and a
// missing file yields the defaults.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

func LoadSettingsFrom(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return settings, nil
}
