package storage

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/logging"
	"github.com/pombredanne/pycense/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	licensesDir  = "licenses"
	licenseExt   = ".txt"
	profilesFile = "profiles.yaml"
)

//go:embed bundled/*.txt
var bundled embed.FS

// Storage handles all file system operations for licenses and profiles
type Storage struct {
	rootPath string
	logger   *zap.Logger
	now      func() time.Time
}

// NewStorage creates a new storage instance rooted at rootPath. An empty
// rootPath means ~/.pycense.
func NewStorage(rootPath string, logger *zap.Logger) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".pycense")
	}

	return &Storage{
		rootPath: rootPath,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}, nil
}

// InitLibrary creates the directory structure and seeds the bundled
// licenses. Existing licenses are never overwritten.
func (s *Storage) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		filepath.Join(s.rootPath, licensesDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.StorageError(fmt.Sprintf("create directory %s", dir), err)
		}
	}

	entries, err := fs.ReadDir(bundled, "bundled")
	if err != nil {
		return apperrors.InternalError("bundled licenses unavailable")
	}
	for _, entry := range entries {
		target := filepath.Join(s.rootPath, licensesDir, entry.Name())
		if _, err := os.Stat(target); err == nil {
			continue
		}
		data, err := bundled.ReadFile("bundled/" + entry.Name())
		if err != nil {
			return apperrors.InternalError("bundled licenses unavailable")
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return apperrors.StorageError("seed license "+entry.Name(), err)
		}
		s.logger.Debug("seeded license", zap.String("file", target))
	}

	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// validateName rejects names that cannot be used as a single file name.
func validateName(kind, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperrors.ValidationError(kind + " name must not be empty")
	case strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, "."):
		return apperrors.ValidationError(fmt.Sprintf("invalid %s name '%s'", kind, name))
	}
	return nil
}

// notFound builds a NOT_FOUND error with fuzzy suggestions from known.
func notFound(kind, name string, known []string) error {
	err := apperrors.NotFoundError(fmt.Sprintf("%s '%s'", kind, name))
	var suggestions []string
	for _, m := range fuzzy.Find(name, known) {
		if len(suggestions) == 3 {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	if len(suggestions) > 0 {
		err.WithDetails(fmt.Sprintf("did you mean %s?", strings.Join(suggestions, ", ")))
	}
	return err
}

// Helper functions

// parseLicenseFile splits a license file into frontmatter and text. Files
// without a leading "---" line are plain license text.
func parseLicenseFile(content []byte) (*models.License, error) {
	var license models.License

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read license: %w", err)
	}

	body := lines
	if len(lines) > 0 && lines[0] == "---" {
		end := -1
		for i := 1; i < len(lines); i++ {
			if lines[i] == "---" {
				end = i
				break
			}
		}
		if end < 0 {
			return nil, fmt.Errorf("unterminated frontmatter")
		}
		frontmatter := strings.Join(lines[1:end], "\n")
		if err := yaml.Unmarshal([]byte(frontmatter), &license); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
		body = lines[end+1:]
	}

	license.Content = strings.Trim(strings.Join(body, "\n"), "\n")
	return &license, nil
}

// serializeLicense converts a license to YAML frontmatter + text
func serializeLicense(license *models.License) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(license); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n")

	if license.Content != "" {
		buf.WriteString("\n")
		buf.WriteString(license.Content)
		if !strings.HasSuffix(license.Content, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// DecodeLicense parses license file content: optional frontmatter followed
// by the license text.
func DecodeLicense(content []byte) (*models.License, error) {
	return parseLicenseFile(content)
}

// EncodeLicense renders a license in its on-disk form.
func EncodeLicense(license *models.License) ([]byte, error) {
	return serializeLicense(license)
}
