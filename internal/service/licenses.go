package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/models"
	"github.com/pombredanne/pycense/internal/storage"
)

// TextEditor edits text interactively.
type TextEditor interface {
	Edit(ctx context.Context, initial, pattern string) (string, error)
}

// AddLicense stores a new license from its file form: optional frontmatter
// followed by the text.
func (s *Service) AddLicense(name string, content []byte) (*models.License, error) {
	if s.storage.LicenseExists(name) {
		return nil, apperrors.AlreadyExistsError(fmt.Sprintf("license '%s'", name))
	}

	license, err := storage.DecodeLicense(content)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "license text is malformed")
	}
	if license.Content == "" {
		return nil, apperrors.ValidationError("license text is empty")
	}
	license.ID = name
	if err := s.storage.SaveLicense(license); err != nil {
		return nil, err
	}
	return license, nil
}

// EditLicense opens the named license, frontmatter included, in editor and
// saves the result. Unchanged content is not written back.
func (s *Service) EditLicense(ctx context.Context, name string, editor TextEditor) (*models.License, error) {
	license, err := s.storage.LoadLicense(name)
	if err != nil {
		return nil, err
	}

	before, err := storage.EncodeLicense(license)
	if err != nil {
		return nil, apperrors.InternalError(err.Error())
	}
	after, err := editor.Edit(ctx, string(before), name+"-*.txt")
	if err != nil {
		return nil, err
	}
	if after == string(before) {
		s.logger.Debug("license unchanged", zap.String("name", name))
		return license, nil
	}

	edited, err := storage.DecodeLicense([]byte(after))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "edited license is malformed")
	}
	edited.ID = name
	edited.CreatedAt = license.CreatedAt
	if err := s.storage.SaveLicense(edited); err != nil {
		return nil, err
	}
	return edited, nil
}
