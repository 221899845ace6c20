package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/muloader/internal/muloader"
)

// knownTypes are the package types the override command accepts.
var knownTypes = []string{
	muloader.TypePlugin,
	muloader.TypeMuPlugin,
	"wordpress-theme",
	"wordpress-dropin",
	"wordpress-core",
	"library",
	"metapackage",
	"composer-plugin",
}

// packageType is a pflag.Value restricted to knownTypes.
type packageType string

var _ pflag.Value = (*packageType)(nil)

func (t *packageType) String() string {
	return string(*t)
}

func (t *packageType) Set(v string) error {
	if !slices.Contains(knownTypes, v) {
		return fmt.Errorf("unknown package type %q (expected one of %s)", v, strings.Join(knownTypes, ", "))
	}
	*t = packageType(v)
	return nil
}

func (t *packageType) Type() string {
	return "type"
}
