package composer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// InstalledPackage is an entry of vendor/composer/installed.json.
type InstalledPackage struct {
	Name    string
	Type    string
	Version string

	// InstallPath is absolute, or "" when Composer did not record it.
	InstallPath string
}

// InstalledPath returns the location of installed.json.
func (p *Project) InstalledPath() string {
	return filepath.Join(p.vendorDir, "composer", "installed.json")
}

// Installed lists the packages Composer installed. It returns no packages
// and no error when nothing has been installed yet.
func (p *Project) Installed() ([]InstalledPackage, error) {
	data, err := os.ReadFile(p.InstalledPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read installed packages: %w", err)
	}
	return parseInstalled(data, filepath.Dir(p.InstalledPath()))
}

// parseInstalled reads the Composer 2 {"packages": [...]} layout and the
// Composer 1 top-level array. Install paths are relative to base.
func parseInstalled(data []byte, base string) ([]InstalledPackage, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("installed.json is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("packages")
	}
	if !list.IsArray() {
		return nil, errors.New("installed.json has no package list")
	}

	var pkgs []InstalledPackage
	list.ForEach(func(_, entry gjson.Result) bool {
		name := entry.Get("name").String()
		if name == "" {
			return true
		}

		pkg := InstalledPackage{
			Name:    name,
			Type:    entry.Get("type").String(),
			Version: entry.Get("version").String(),
		}
		if pkg.Type == "" {
			pkg.Type = "library"
		}
		if rel := filepath.FromSlash(entry.Get("install-path").String()); rel != "" {
			if !filepath.IsAbs(rel) {
				rel = filepath.Join(base, rel)
			}
			pkg.InstallPath = filepath.Clean(rel)
		}

		pkgs = append(pkgs, pkg)
		return true
	})

	return pkgs, nil
}
