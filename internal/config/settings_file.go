package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	apperrors "github.com/pombredanne/pycense/internal/errors"
)

// SettingsFile is a box settings document imported as a profile. The file
// is either a flat map of setting names to values, or a map with a
// "settings" map and an optional "description".
type SettingsFile struct {
	Name        string
	Description string
	Settings    map[string]any
}

// ParseSettings decodes a settings document. JSON input may carry // and
// /* */ comments and trailing commas; anything else is read as YAML.
func ParseSettings(data []byte, ext string) (*SettingsFile, error) {
	var doc map[string]any
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("parsing settings: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing settings: %w", err)
		}
	}

	file := &SettingsFile{Settings: doc}
	if nested, ok := doc["settings"].(map[string]any); ok {
		file.Settings = nested
		if description, ok := doc["description"].(string); ok {
			file.Description = description
		}
	}
	if file.Settings == nil {
		file.Settings = make(map[string]any)
	}
	return file, nil
}

// ReadSettingsFile reads and parses a settings file. Its name defaults to
// the file name without directory or extension.
func ReadSettingsFile(path string) (*SettingsFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperrors.FileNotFoundError(path, err)
	}
	if err != nil {
		return nil, apperrors.StorageError("read "+path, err)
	}

	file, err := ParseSettings(data, filepath.Ext(path))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, fmt.Sprintf("%s is malformed", path))
	}
	file.Name = NameFromPath(path)
	return file, nil
}

// NameFromPath strips the directory and extension from path:
// "styles/shell.jsonc" becomes "shell".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
