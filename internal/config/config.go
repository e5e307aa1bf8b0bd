// Package config loads the user's pycense configuration and the settings
// files used to import profiles.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"

	apperrors "github.com/pombredanne/pycense/internal/errors"
)

const (
	// DirEnv overrides the library root.
	DirEnv = "PYCENSE_DIR"

	// DefaultTabWidth applies when tab_width is unset.
	DefaultTabWidth = 8

	configFile = "config.yaml"
)

// Config holds user preferences stored in config.yaml. Zero values mean
// "not set"; the Effective helpers supply the defaults.
type Config struct {
	Owner          string `yaml:"owner,omitempty"`
	Company        string `yaml:"company,omitempty"`
	DefaultProfile string `yaml:"default_profile,omitempty"`
	DefaultLicense string `yaml:"default_license,omitempty"`
	TabWidth       int    `yaml:"tab_width,omitempty"`
	Editor         string `yaml:"editor,omitempty"`

	path string
}

// Keys lists the configuration keys accepted by Get and Set.
var Keys = []string{"owner", "company", "default_profile", "default_license", "tab_width", "editor"}

// ResolveBaseDir returns dir when non-empty, then $PYCENSE_DIR, then
// ~/.pycense.
func ResolveBaseDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if env := os.Getenv(DirEnv); env != "" {
		return env, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pycense"), nil
}

// Load reads config.yaml from baseDir. A missing file yields an empty
// configuration.
func Load(baseDir string) (*Config, error) {
	c := &Config{path: filepath.Join(baseDir, configFile)}

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, apperrors.StorageError("read configuration", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation,
			fmt.Sprintf("%s is malformed", configFile))
	}
	if c.TabWidth < 0 {
		return nil, apperrors.ValidationError("tab_width must not be negative")
	}
	return c, nil
}

// Save writes the configuration back to config.yaml
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return apperrors.StorageError("create configuration directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return apperrors.StorageError("encode configuration", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return apperrors.StorageError("write configuration", err)
	}
	return nil
}

// Path returns the location of config.yaml
func (c *Config) Path() string {
	return c.path
}

// EffectiveOwner returns the configured owner, falling back to $USER.
func (c *Config) EffectiveOwner() string {
	if c.Owner != "" {
		return c.Owner
	}
	return os.Getenv("USER")
}

// EffectiveTabWidth returns the configured tab width or DefaultTabWidth.
func (c *Config) EffectiveTabWidth() int {
	if c.TabWidth > 0 {
		return c.TabWidth
	}
	return DefaultTabWidth
}

// Get returns the raw value of key as text.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "owner":
		return c.Owner, nil
	case "company":
		return c.Company, nil
	case "default_profile":
		return c.DefaultProfile, nil
	case "default_license":
		return c.DefaultLicense, nil
	case "tab_width":
		if c.TabWidth == 0 {
			return "", nil
		}
		return strconv.Itoa(c.TabWidth), nil
	case "editor":
		return c.Editor, nil
	}
	return "", unknownKey(key)
}

// Set assigns key from text. An empty value unsets it.
func (c *Config) Set(key, value string) error {
	switch key {
	case "owner":
		c.Owner = value
	case "company":
		c.Company = value
	case "default_profile":
		c.DefaultProfile = value
	case "default_license":
		c.DefaultLicense = value
	case "tab_width":
		if value == "" {
			c.TabWidth = 0
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return apperrors.InvalidInputError(fmt.Sprintf("tab_width must be a non-negative integer, got '%s'", value))
		}
		c.TabWidth = n
	case "editor":
		c.Editor = value
	default:
		return unknownKey(key)
	}
	return nil
}

func unknownKey(key string) error {
	err := apperrors.ValidationError(fmt.Sprintf("unknown configuration key '%s'", key))
	var suggestions []string
	for _, m := range fuzzy.Find(key, Keys) {
		suggestions = append(suggestions, m.Str)
	}
	sort.Strings(suggestions)
	if len(suggestions) > 0 {
		err.WithDetails(fmt.Sprintf("did you mean %s?", strings.Join(suggestions, ", ")))
	} else {
		err.WithDetails("valid keys: " + strings.Join(Keys, ", "))
	}
	return err
}
