package models

import "sort"

// Profile is a named set of box settings, keyed by canonical setting name.
type Profile struct {
	Name        string         `yaml:"-"`
	Description string         `yaml:"description,omitempty"`
	Settings    map[string]any `yaml:"settings"`
}

// Keys returns the profile's setting names, sorted.
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
