package muloader

import (
	"strings"

	"github.com/jmylchreest/muloader/internal/config"
)

// Slug returns the plugin slug of a package name, with the WPackagist
// mirror prefix removed.
func Slug(name string) string {
	return strings.TrimPrefix(name, MirrorPrefix)
}

// OverrideType changes pkg to the must-use type when it is a regular
// WordPress plugin whose slug is in the force-mu allowlist. It reports
// whether the type was changed.
func OverrideType(pkg Package, cfg config.Config) bool {
	if pkg == nil || pkg.Type() != TypePlugin {
		return false
	}
	if len(cfg.ForceMu) == 0 {
		return false
	}
	if !cfg.ForcesMu(Slug(pkg.Name())) {
		return false
	}

	pkg.SetType(TypeMuPlugin)
	return true
}
