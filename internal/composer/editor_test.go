package composer

import (
	"os"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/jmylchreest/muloader/internal/config"
)

func TestAddForceMu(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		slug        string
		want        []string
		wantChanged bool
	}{
		{"no extra", `{"name":"acme/site"}`, "acme-seo", []string{"acme-seo"}, true},
		{"append", `{"extra":{"force-mu":["a"]}}`, "b", []string{"a", "b"}, true},
		{"already present", `{"extra":{"force-mu":["a","b"]}}`, "b", []string{"a", "b"}, false},
		{"not an array", `{"extra":{"force-mu":"a"}}`, "b", []string{"b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed, err := AddForceMu(tt.slug)([]byte(tt.doc))
			if err != nil {
				t.Fatalf("AddForceMu() error = %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("AddForceMu() changed = %v, want %v", changed, tt.wantChanged)
			}
			if got := config.Parse([]byte(gjson.GetBytes(out, "extra").Raw)).ForceMu; strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("force-mu = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveForceMu(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		slug        string
		want        string
		wantChanged bool
	}{
		{"remove middle", `{"extra":{"force-mu":["a","b","c"]}}`, "b", `["a","c"]`, true},
		{"remove duplicates", `{"extra":{"force-mu":["b","a","b"]}}`, "b", `["a"]`, true},
		{"absent slug", `{"extra":{"force-mu":["a"]}}`, "z", `["a"]`, false},
		{"no list", `{"extra":{}}`, "a", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed, err := RemoveForceMu(tt.slug)([]byte(tt.doc))
			if err != nil {
				t.Fatalf("RemoveForceMu() error = %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("RemoveForceMu() changed = %v, want %v", changed, tt.wantChanged)
			}
			if got := gjson.GetBytes(out, "extra.force-mu").Raw; got != tt.want {
				t.Errorf("force-mu = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSetRequireFile(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		file        string
		disabled    bool
		want        string
		wantChanged bool
	}{
		{"set name", `{}`, "loader.php", false, `"loader.php"`, true},
		{"disable", `{"extra":{"mu-require-file":"loader.php"}}`, "", true, `false`, true},
		{"unchanged", `{"extra":{"mu-require-file":"loader.php"}}`, "loader.php", false, `"loader.php"`, false},
		{"unchanged disabled", `{"extra":{"mu-require-file":false}}`, "", true, `false`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed, err := SetRequireFile(tt.file, tt.disabled)([]byte(tt.doc))
			if err != nil {
				t.Fatalf("SetRequireFile() error = %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("SetRequireFile() changed = %v, want %v", changed, tt.wantChanged)
			}
			if got := gjson.GetBytes(out, "extra.mu-require-file").Raw; got != tt.want {
				t.Errorf("mu-require-file = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSetUnixSeparator(t *testing.T) {
	out, changed, err := SetUnixSeparator(true)([]byte(`{"extra":{}}`))
	if err != nil || !changed {
		t.Fatalf("SetUnixSeparator(true) = %v, %v", changed, err)
	}
	if cfg := config.Parse([]byte(gjson.GetBytes(out, "extra").Raw)); cfg.Separator != config.SeparatorUnix {
		t.Errorf("separator = %s, want unix", cfg.Separator)
	}

	_, changed, err = SetUnixSeparator(true)(out)
	if err != nil || changed {
		t.Errorf("SetUnixSeparator(true) twice changed = %v, err = %v", changed, err)
	}
}

func TestApply(t *testing.T) {
	dir := writeManifest(t, `{"name":"acme/site","require":{"php":">=8.1"}}`)
	project, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	changed, err := project.Apply(AddForceMu("acme-seo"))
	if err != nil || !changed {
		t.Fatalf("Apply() = %v, %v", changed, err)
	}

	data, err := os.ReadFile(project.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n    \"name\": \"acme/site\"") {
		t.Errorf("composer.json not indented with four spaces:\n%s", data)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Errorf("composer.json does not end with a newline:\n%s", data)
	}
	if got := gjson.GetBytes(data, "require.php").String(); got != ">=8.1" {
		t.Errorf("unrelated keys lost, require.php = %q", got)
	}

	if cfg := config.Parse(project.Extra()); !cfg.ForcesMu("acme-seo") {
		t.Errorf("project not reloaded after Apply(), extra = %s", project.Extra())
	}

	changed, err = project.Apply(AddForceMu("acme-seo"))
	if err != nil || changed {
		t.Errorf("second Apply() = %v, %v, want no change", changed, err)
	}
}
