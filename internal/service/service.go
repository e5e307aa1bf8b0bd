// Package service holds the operations behind every pycense command:
// building box specs from profiles, filling license placeholders, rendering
// and splicing the result into files.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pombredanne/pycense/internal/box"
	"github.com/pombredanne/pycense/internal/config"
	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/logging"
	"github.com/pombredanne/pycense/internal/models"
	"github.com/pombredanne/pycense/internal/splice"
	"github.com/pombredanne/pycense/internal/storage"
	"github.com/pombredanne/pycense/internal/substitute"
)

// Options configure New.
type Options struct {
	// BaseDir overrides $PYCENSE_DIR and ~/.pycense.
	BaseDir string
	Logger  *zap.Logger
	// Now defaults to time.Now; it supplies the <year> placeholder.
	Now func() time.Time
}

// Service provides business logic for license rendering
type Service struct {
	storage *storage.Storage
	config  *config.Config
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a service over the library at the resolved base directory.
func New(opts Options) (*Service, error) {
	baseDir, err := config.ResolveBaseDir(opts.BaseDir)
	if err != nil {
		return nil, apperrors.InternalError(err.Error())
	}

	logger := logging.OrNop(opts.Logger)
	store, err := storage.NewStorage(baseDir, logger)
	if err != nil {
		return nil, apperrors.StorageError("initialize storage", err)
	}
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger.Debug("service ready", zap.String("dir", baseDir))
	return &Service{
		storage: store,
		config:  cfg,
		logger:  logger,
		now:     now,
	}, nil
}

// Storage exposes the license and profile store.
func (s *Service) Storage() *storage.Storage {
	return s.storage
}

// Config exposes the loaded configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// InitLibrary creates the library layout and seeds bundled licenses.
func (s *Service) InitLibrary() error {
	return s.storage.InitLibrary()
}

// SetConfig updates one configuration key and saves the file.
func (s *Service) SetConfig(key, value string) error {
	if err := s.config.Set(key, value); err != nil {
		return err
	}
	return s.config.Save()
}

// BuildSpec starts from the default spec, applies the named profile (or the
// configured default profile when name is empty) and then the overrides,
// each given as "name=value".
func (s *Service) BuildSpec(profile string, overrides []string) (box.BoxSpec, error) {
	spec := box.DefaultSpec()

	if profile == "" {
		profile = s.config.DefaultProfile
	}
	if profile != "" {
		p, err := s.storage.LoadProfile(profile)
		if err != nil {
			return box.BoxSpec{}, err
		}
		if err := box.ApplyAll(&spec, p.Settings); err != nil {
			return box.BoxSpec{}, apperrors.FromSettingError(err)
		}
	}

	settings, err := ParseSettings(overrides)
	if err != nil {
		return box.BoxSpec{}, err
	}
	if err := box.ApplyAll(&spec, settings); err != nil {
		return box.BoxSpec{}, apperrors.FromSettingError(err)
	}

	s.logger.Debug("built spec", zap.String("profile", profile), zap.Int("overrides", len(settings)), zap.Int("width", spec.Width))
	return spec, nil
}

// Pairs assembles placeholder values. Explicit vars ("name=value") win over
// the license's defaults, which win over the configured owner and company
// and the current year.
func (s *Service) Pairs(license *models.License, vars []string) ([]substitute.Pair, error) {
	explicit, err := parsePairs(vars)
	if err != nil {
		return nil, err
	}

	var licenseDefaults []substitute.Pair
	if license != nil {
		values := make(map[string]any, len(license.Placeholders))
		for name, value := range license.Placeholders {
			values[name] = value
		}
		licenseDefaults = substitute.PairsFromMap(values)
	}

	ambient := substitute.Defaults(s.config.EffectiveOwner(), s.config.Company, s.now().Year())
	return substitute.Merge(explicit, licenseDefaults, ambient), nil
}

// ParseSettings turns "name=value" overrides into canonical settings with
// typed values. Later overrides of the same setting win.
func ParseSettings(assignments []string) (map[string]any, error) {
	settings := make(map[string]any, len(assignments))
	for _, assignment := range assignments {
		name, raw, err := splitAssignment(assignment)
		if err != nil {
			return nil, err
		}
		canonical, err := box.Canonical(name)
		if err != nil {
			return nil, apperrors.FromSettingError(err)
		}
		value, err := box.ParseValue(canonical, raw)
		if err != nil {
			return nil, apperrors.FromSettingError(err)
		}
		settings[canonical] = value
	}
	return settings, nil
}

// parsePairs keeps the order of first appearance; a repeated name takes the
// last value given.
func parsePairs(assignments []string) ([]substitute.Pair, error) {
	var pairs []substitute.Pair
	index := make(map[string]int)
	for _, assignment := range assignments {
		name, value, err := splitAssignment(assignment)
		if err != nil {
			return nil, err
		}
		if i, ok := index[name]; ok {
			pairs[i].Value = value
			continue
		}
		index[name] = len(pairs)
		pairs = append(pairs, substitute.Pair{Name: name, Value: value})
	}
	return pairs, nil
}

func splitAssignment(assignment string) (string, string, error) {
	name, value, ok := strings.Cut(assignment, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", apperrors.InvalidInputError(fmt.Sprintf("expected name=value, got '%s'", assignment))
	}
	return name, value, nil
}

// RenderRequest describes one render.
type RenderRequest struct {
	// License names a stored license. Ignored when Text is set; when both
	// are empty the configured default license is used.
	License string
	// Text is rendered instead of a stored license.
	Text     string
	Profile  string
	Settings []string
	Vars     []string
	// TabWidth overrides the configured tab width when positive.
	TabWidth   int
	Paragraphs bool
}

// Render substitutes placeholders into the requested text and frames it.
func (s *Service) Render(req RenderRequest) (string, error) {
	text, license, err := s.source(req)
	if err != nil {
		return "", err
	}

	spec, err := s.BuildSpec(req.Profile, req.Settings)
	if err != nil {
		return "", err
	}
	pairs, err := s.Pairs(license, req.Vars)
	if err != nil {
		return "", err
	}

	tabWidth := req.TabWidth
	if tabWidth <= 0 {
		tabWidth = s.config.EffectiveTabWidth()
	}
	opts := []box.RenderOption{box.WithTabWidth(tabWidth)}
	if req.Paragraphs {
		opts = append(opts, box.WithParagraphs())
	}

	filled := substitute.Substitute(text, pairs)
	if missing := substitute.Placeholders(filled); len(missing) > 0 {
		s.logger.Warn("unfilled placeholders", zap.Strings("names", missing))
	}
	return box.Render(spec, filled, opts...), nil
}

func (s *Service) source(req RenderRequest) (string, *models.License, error) {
	if req.Text != "" {
		return req.Text, nil, nil
	}

	name := req.License
	if name == "" {
		name = s.config.DefaultLicense
	}
	if name == "" {
		return "", nil, apperrors.ValidationError("nothing to render").
			WithDetails("pass a license name or text, or set default_license")
	}

	license, err := s.storage.LoadLicense(name)
	if err != nil {
		return "", nil, err
	}
	return license.Content, license, nil
}

// Apply renders req once and splices the block into each path in order.
// It stops at the first failure, returning the results gathered so far.
func (s *Service) Apply(ctx context.Context, req RenderRequest, paths []string, opts splice.Options) ([]*splice.Result, error) {
	if len(paths) == 0 {
		return nil, apperrors.ValidationError("no files given")
	}

	block, err := s.Render(req)
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	results := make([]*splice.Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := splice.Insert(ctx, path, block, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
