package service

import (
	"github.com/pombredanne/pycense/internal/box"
	"github.com/pombredanne/pycense/internal/config"
	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/models"
)

// SetProfile creates the named profile or updates it with assignments
// ("name=value").
func (s *Service) SetProfile(name string, assignments []string) (*models.Profile, error) {
	settings, err := ParseSettings(assignments)
	if err != nil {
		return nil, err
	}

	profile, err := s.storage.LoadProfile(name)
	if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		profile = &models.Profile{Name: name, Settings: make(map[string]any)}
	} else if err != nil {
		return nil, err
	}

	for key, value := range settings {
		profile.Settings[key] = value
	}
	if err := s.storage.SaveProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UnsetProfile removes settings from the named profile. Aliases are
// accepted; keys the profile does not set are ignored.
func (s *Service) UnsetProfile(name string, keys []string) (*models.Profile, error) {
	profile, err := s.storage.LoadProfile(name)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		canonical, err := box.Canonical(key)
		if err != nil {
			return nil, apperrors.FromSettingError(err)
		}
		delete(profile.Settings, canonical)
	}
	if err := s.storage.SaveProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ImportProfile saves the settings file at path as a profile. An empty name
// takes the file's base name. An existing profile of that name is replaced.
func (s *Service) ImportProfile(path, name string) (*models.Profile, error) {
	file, err := config.ReadSettingsFile(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = file.Name
	}

	profile := &models.Profile{
		Name:        name,
		Description: file.Description,
		Settings:    file.Settings,
	}
	if err := s.storage.SaveProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ProfileSpec returns the full spec a profile produces on top of the
// defaults.
func (s *Service) ProfileSpec(name string) (box.BoxSpec, error) {
	return s.BuildSpec(name, nil)
}
