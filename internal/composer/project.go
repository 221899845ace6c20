// Package composer reads and edits a Composer project: composer.json, the
// installer paths it declares and the packages Composer installed.
package composer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/jmylchreest/muloader/internal/muloader"
)

// FileName is the project manifest name.
const FileName = "composer.json"

// DefaultVendorDir is used when config.vendor-dir is not set.
const DefaultVendorDir = "vendor"

// VendorDirEnv overrides config.vendor-dir, as it does for Composer.
const VendorDirEnv = "COMPOSER_VENDOR_DIR"

var (
	// ErrNoComposerJSON is returned when the project has no composer.json.
	ErrNoComposerJSON = errors.New("composer.json not found")

	// ErrInvalidComposerJSON is returned when composer.json is not a JSON object.
	ErrInvalidComposerJSON = errors.New("composer.json is not a valid JSON object")
)

// Project is a Composer project on disk. It implements muloader.Host.
type Project struct {
	dir       string
	vendorDir string
	manifest  []byte
}

var _ muloader.Host = (*Project)(nil)

// Load reads the composer.json in dir.
func Load(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(abs, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoComposerJSON, abs)
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	return parse(abs, data)
}

func parse(dir string, data []byte) (*Project, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidComposerJSON, filepath.Join(dir, FileName))
	}

	vendor := DefaultVendorDir
	if v := gjson.GetBytes(data, "config.vendor-dir"); v.Type == gjson.String && v.Str != "" {
		vendor = v.Str
	}
	if env := os.Getenv(VendorDirEnv); env != "" {
		vendor = env
	}
	if !filepath.IsAbs(vendor) {
		vendor = filepath.Join(dir, vendor)
	}

	return &Project{
		dir:       dir,
		vendorDir: filepath.Clean(vendor),
		manifest:  data,
	}, nil
}

// Name returns the root package name, or "" when unnamed.
func (p *Project) Name() string {
	return gjson.GetBytes(p.manifest, "name").String()
}

// Path returns the absolute path of composer.json.
func (p *Project) Path() string {
	return filepath.Join(p.dir, FileName)
}

// Manifest returns the raw composer.json contents.
func (p *Project) Manifest() []byte {
	return p.manifest
}

// Extra returns the raw JSON of the "extra" block, or nil when absent.
func (p *Project) Extra() []byte {
	extra := gjson.GetBytes(p.manifest, "extra")
	if !extra.Exists() {
		return nil
	}
	return []byte(extra.Raw)
}

// BaseDir returns the project directory.
func (p *Project) BaseDir() string {
	return p.dir
}

// VendorDir returns the absolute vendor directory.
func (p *Project) VendorDir() string {
	return p.vendorDir
}

// Reload re-reads composer.json from disk.
func (p *Project) Reload() error {
	fresh, err := Load(p.dir)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}
