package composer

import (
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jmylchreest/muloader/internal/muloader"
)

// Default locations of the WordPress installer, keyed by package type.
var wordpressLocations = map[string]string{
	"wordpress-plugin":   "wp-content/plugins/{$name}/",
	"wordpress-muplugin": "wp-content/mu-plugins/{$name}/",
	"wordpress-theme":    "wp-content/themes/{$name}/",
	"wordpress-dropin":   "wp-content/{$name}/",
}

// Match ranks, best first.
const (
	matchNone = iota
	matchVendor
	matchType
	matchName
)

// InstallPath returns where Composer would install pkg. Paths from
// extra.installer-paths and the WordPress defaults are relative to the
// project directory and keep their trailing slash; other packages go to
// the vendor directory.
func (p *Project) InstallPath(pkg muloader.Package) (string, error) {
	if tmpl, ok := p.installerPath(pkg); ok {
		return expand(tmpl, pkg), nil
	}
	if tmpl, ok := wordpressLocations[pkg.Type()]; ok {
		return expand(tmpl, pkg), nil
	}
	return filepath.Join(p.vendorDir, filepath.FromSlash(pkg.Name())), nil
}

// installerPath finds the best extra.installer-paths entry for pkg. A
// package name match beats a type match, which beats a vendor match. Among
// equal matches the first in the document wins.
func (p *Project) installerPath(pkg muloader.Package) (string, bool) {
	vendor, _ := splitName(pkg.Name())

	var best string
	rank := matchNone
	gjson.GetBytes(p.manifest, "extra.installer-paths").ForEach(func(path, matchers gjson.Result) bool {
		matchers.ForEach(func(_, m gjson.Result) bool {
			r := matchRank(m.String(), pkg, vendor)
			if r > rank {
				rank = r
				best = path.String()
			}
			return true
		})
		return true
	})

	return best, rank != matchNone
}

func matchRank(matcher string, pkg muloader.Package, vendor string) int {
	switch {
	case matcher == pkg.Name():
		return matchName
	case strings.HasPrefix(matcher, "type:") && strings.TrimPrefix(matcher, "type:") == pkg.Type():
		return matchType
	case strings.HasPrefix(matcher, "vendor:") && vendor != "" && strings.TrimPrefix(matcher, "vendor:") == vendor:
		return matchVendor
	default:
		return matchNone
	}
}

// expand substitutes {$name}, {$vendor} and {$type}. {$type} is the type
// without its "wordpress-" prefix, as the WordPress installer names it.
func expand(tmpl string, pkg muloader.Package) string {
	vendor, name := splitName(pkg.Name())
	return strings.NewReplacer(
		"{$name}", name,
		"{$vendor}", vendor,
		"{$type}", strings.TrimPrefix(pkg.Type(), "wordpress-"),
	).Replace(tmpl)
}

func splitName(full string) (vendor, name string) {
	if i := strings.IndexByte(full, '/'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return "", full
}
