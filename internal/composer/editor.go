package composer

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/jmylchreest/muloader/internal/config"
)

// Composer writes composer.json with four-space indentation and expanded arrays.
var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "    ",
	SortKeys: false,
}

// Edit is a change to a composer.json document. It reports whether the
// document changed.
type Edit func(doc []byte) ([]byte, bool, error)

// Apply runs edit against composer.json and writes the result back when it
// changed. The project is reloaded after a write.
func (p *Project) Apply(edit Edit) (bool, error) {
	doc, changed, err := edit(p.manifest)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	info, err := os.Stat(p.Path())
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", FileName, err)
	}
	if err := os.WriteFile(p.Path(), Format(doc), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", FileName, err)
	}

	if err := p.Reload(); err != nil {
		return true, err
	}
	return true, nil
}

// Format re-indents doc the way Composer writes it.
func Format(doc []byte) []byte {
	return pretty.PrettyOptions(doc, prettyOptions)
}

// AddForceMu appends slug to extra.force-mu. A force-mu value that is not
// an array is replaced.
func AddForceMu(slug string) Edit {
	return func(doc []byte) ([]byte, bool, error) {
		path := "extra." + config.KeyForceMu
		list := gjson.GetBytes(doc, path)

		if !list.IsArray() {
			out, err := sjson.SetBytes(doc, path, []string{slug})
			return out, err == nil, err
		}

		for _, v := range list.Array() {
			if v.Type == gjson.String && v.Str == slug {
				return doc, false, nil
			}
		}

		out, err := sjson.SetBytes(doc, path+".-1", slug)
		return out, err == nil, err
	}
}

// RemoveForceMu removes every occurrence of slug from extra.force-mu.
func RemoveForceMu(slug string) Edit {
	return func(doc []byte) ([]byte, bool, error) {
		path := "extra." + config.KeyForceMu
		list := gjson.GetBytes(doc, path)
		if !list.IsArray() {
			return doc, false, nil
		}

		entries := list.Array()
		changed := false
		// Delete from the end so earlier indexes stay valid.
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Type != gjson.String || entries[i].Str != slug {
				continue
			}
			var err error
			doc, err = sjson.DeleteBytes(doc, path+"."+strconv.Itoa(i))
			if err != nil {
				return nil, false, fmt.Errorf("failed to remove %q from %s: %w", slug, config.KeyForceMu, err)
			}
			changed = true
		}
		return doc, changed, nil
	}
}

// SetRequireFile sets extra.mu-require-file to name, or to false when
// disabled is set.
func SetRequireFile(name string, disabled bool) Edit {
	return func(doc []byte) ([]byte, bool, error) {
		path := "extra." + config.KeyRequireFile
		var value any = name
		if disabled {
			value = false
		}
		return setValue(doc, path, value)
	}
}

// SetUnixSeparator sets extra.force-unix-separator.
func SetUnixSeparator(enabled bool) Edit {
	return func(doc []byte) ([]byte, bool, error) {
		return setValue(doc, "extra."+config.KeyUnixSeparator, enabled)
	}
}

func setValue(doc []byte, path string, value any) ([]byte, bool, error) {
	current := gjson.GetBytes(doc, path)
	if current.Exists() && current.Value() == value {
		return doc, false, nil
	}

	out, err := sjson.SetBytes(doc, path, value)
	if err != nil {
		return nil, false, fmt.Errorf("failed to set %s: %w", path, err)
	}
	return out, true, nil
}
