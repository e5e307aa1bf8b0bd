package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/models"
)

func (s *Storage) licensePath(name string) string {
	return filepath.Join(s.rootPath, licensesDir, name+licenseExt)
}

// LicenseNames returns the names of every stored license, sorted.
func (s *Storage) LicenseNames() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.rootPath, licensesDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.StorageError("list licenses", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), licenseExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), licenseExt))
	}
	sort.Strings(names)
	return names, nil
}

// LicenseExists reports whether a license named name is stored.
func (s *Storage) LicenseExists(name string) bool {
	if validateName("license", name) != nil {
		return false
	}
	_, err := os.Stat(s.licensePath(name))
	return err == nil
}

// LoadLicense loads a license by name. The file name is authoritative for
// the license's ID.
func (s *Storage) LoadLicense(name string) (*models.License, error) {
	if err := validateName("license", name); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.licensePath(name))
	if os.IsNotExist(err) {
		known, _ := s.LicenseNames()
		return nil, notFound("license", name, known)
	}
	if err != nil {
		return nil, apperrors.StorageError("read license "+name, err)
	}

	license, err := parseLicenseFile(content)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation,
			fmt.Sprintf("license '%s' is malformed", name))
	}
	license.ID = name
	license.FilePath = filepath.Join(licensesDir, name+licenseExt)
	return license, nil
}

// ListLicenses returns all licenses in the library, sorted by name.
// Unreadable files are logged and skipped.
func (s *Storage) ListLicenses() ([]*models.License, error) {
	names, err := s.LicenseNames()
	if err != nil {
		return nil, err
	}

	licenses := make([]*models.License, 0, len(names))
	for _, name := range names {
		license, err := s.LoadLicense(name)
		if err != nil {
			s.logger.Warn("skipping license", zap.String("name", name), zap.Error(err))
			continue
		}
		licenses = append(licenses, license)
	}
	return licenses, nil
}

// SaveLicense writes a license, stamping its timestamps.
func (s *Storage) SaveLicense(license *models.License) error {
	if err := validateName("license", license.ID); err != nil {
		return err
	}

	now := s.now().UTC().Truncate(time.Second)
	if license.CreatedAt.IsZero() {
		license.CreatedAt = now
	}
	license.UpdatedAt = now
	license.FilePath = filepath.Join(licensesDir, license.ID+licenseExt)

	content, err := serializeLicense(license)
	if err != nil {
		return apperrors.StorageError("serialize license "+license.ID, err)
	}

	if err := os.MkdirAll(filepath.Join(s.rootPath, licensesDir), 0755); err != nil {
		return apperrors.StorageError("create licenses directory", err)
	}
	if err := os.WriteFile(s.licensePath(license.ID), content, 0644); err != nil {
		return apperrors.StorageError("write license "+license.ID, err)
	}

	s.logger.Debug("saved license", zap.String("name", license.ID))
	return nil
}

// DeleteLicense removes a license file.
func (s *Storage) DeleteLicense(name string) error {
	if !s.LicenseExists(name) {
		if err := validateName("license", name); err != nil {
			return err
		}
		known, _ := s.LicenseNames()
		return notFound("license", name, known)
	}

	if err := os.Remove(s.licensePath(name)); err != nil {
		return apperrors.StorageError("delete license "+name, err)
	}

	s.logger.Debug("deleted license", zap.String("name", name))
	return nil
}

// RenameLicense moves a license to a new name. The target must not exist.
func (s *Storage) RenameLicense(oldName, newName string) error {
	if err := validateName("license", newName); err != nil {
		return err
	}

	license, err := s.LoadLicense(oldName)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if s.LicenseExists(newName) {
		return apperrors.AlreadyExistsError(fmt.Sprintf("license '%s'", newName))
	}

	license.ID = newName
	if err := s.SaveLicense(license); err != nil {
		return err
	}
	if err := os.Remove(s.licensePath(oldName)); err != nil {
		return apperrors.StorageError("remove license "+oldName, err)
	}
	return nil
}
