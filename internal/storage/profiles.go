package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pombredanne/pycense/internal/box"
	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/models"
)

func (s *Storage) profilesPath() string {
	return filepath.Join(s.rootPath, profilesFile)
}

// loadProfiles reads profiles.yaml. A missing file is an empty set.
func (s *Storage) loadProfiles() (map[string]*models.Profile, error) {
	profiles := make(map[string]*models.Profile)

	data, err := os.ReadFile(s.profilesPath())
	if os.IsNotExist(err) {
		return profiles, nil
	}
	if err != nil {
		return nil, apperrors.StorageError("read profiles", err)
	}

	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation,
			fmt.Sprintf("%s is malformed", profilesFile))
	}
	for name, p := range profiles {
		if p == nil {
			p = &models.Profile{}
			profiles[name] = p
		}
		p.Name = name
		if p.Settings == nil {
			p.Settings = make(map[string]any)
		}
	}
	return profiles, nil
}

// saveProfiles writes every profile back to profiles.yaml
func (s *Storage) saveProfiles(profiles map[string]*models.Profile) error {
	if err := os.MkdirAll(s.rootPath, 0755); err != nil {
		return apperrors.StorageError("create library directory", err)
	}

	data, err := yaml.Marshal(profiles)
	if err != nil {
		return apperrors.StorageError("encode profiles", err)
	}
	if err := os.WriteFile(s.profilesPath(), data, 0644); err != nil {
		return apperrors.StorageError("write profiles", err)
	}
	return nil
}

// ListProfiles returns every profile, sorted by name.
func (s *Storage) ListProfiles() ([]*models.Profile, error) {
	profiles, err := s.loadProfiles()
	if err != nil {
		return nil, err
	}

	out := make([]*models.Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// LoadProfile returns the named profile.
func (s *Storage) LoadProfile(name string) (*models.Profile, error) {
	profiles, err := s.loadProfiles()
	if err != nil {
		return nil, err
	}
	p, ok := profiles[name]
	if !ok {
		return nil, notFound("profile", name, profileNames(profiles))
	}
	return p, nil
}

// SaveProfile validates and stores a profile, replacing any profile of the
// same name. Setting names are stored canonically and values with their
// proper type.
func (s *Storage) SaveProfile(profile *models.Profile) error {
	if err := validateName("profile", profile.Name); err != nil {
		return err
	}

	settings, err := CanonicalSettings(profile.Settings)
	if err != nil {
		return err
	}
	profile.Settings = settings

	profiles, err := s.loadProfiles()
	if err != nil {
		return err
	}
	profiles[profile.Name] = profile
	if err := s.saveProfiles(profiles); err != nil {
		return err
	}

	s.logger.Debug("saved profile", zap.String("name", profile.Name), zap.Int("settings", len(settings)))
	return nil
}

// DeleteProfile removes the named profile.
func (s *Storage) DeleteProfile(name string) error {
	profiles, err := s.loadProfiles()
	if err != nil {
		return err
	}
	if _, ok := profiles[name]; !ok {
		return notFound("profile", name, profileNames(profiles))
	}
	delete(profiles, name)
	return s.saveProfiles(profiles)
}

// RenameProfile moves a profile to a new name. The target must not exist.
func (s *Storage) RenameProfile(oldName, newName string) error {
	if err := validateName("profile", newName); err != nil {
		return err
	}

	profiles, err := s.loadProfiles()
	if err != nil {
		return err
	}
	p, ok := profiles[oldName]
	if !ok {
		return notFound("profile", oldName, profileNames(profiles))
	}
	if oldName == newName {
		return nil
	}
	if _, exists := profiles[newName]; exists {
		return apperrors.AlreadyExistsError(fmt.Sprintf("profile '%s'", newName))
	}

	delete(profiles, oldName)
	p.Name = newName
	profiles[newName] = p
	return s.saveProfiles(profiles)
}

// CanonicalSettings resolves aliases and coerces every value to its
// setting's type. Unknown names and bad values are reported as AppErrors.
func CanonicalSettings(settings map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(settings))
	for name, value := range settings {
		canonical, err := box.Canonical(name)
		if err != nil {
			return nil, apperrors.FromSettingError(err)
		}
		if _, dup := out[canonical]; dup {
			return nil, apperrors.ValidationError(fmt.Sprintf("setting '%s' given more than once", canonical))
		}
		var scratch box.BoxSpec
		if err := box.Apply(&scratch, canonical, value); err != nil {
			return nil, apperrors.FromSettingError(err)
		}
		out[canonical] = box.Settings(scratch)[canonical]
	}
	return out, nil
}

func profileNames(profiles map[string]*models.Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
