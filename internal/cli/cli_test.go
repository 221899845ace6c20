package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/jmylchreest/muloader/pkg/plugin"
)

func newProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "composer.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write composer.json: %v", err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestDump(t *testing.T) {
	dir := newProject(t, `{"extra": {"force-unix-separator": true}}`)

	out, err := run(t, "dump", "-d", dir)
	if err != nil {
		t.Fatalf("dump error = %v", err)
	}

	target := filepath.Join(dir, "wp-content", "mu-plugins", "mu-require.php")
	if !strings.Contains(out, "Wrote "+target) {
		t.Errorf("dump output = %q, want it to name %s", out, target)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("bootstrap file not written: %v", err)
	}
	if !strings.Contains(string(data), "'/../../vendor/boxuk/wp-muplugin-loader/src/mu-loader.php'") {
		t.Errorf("unexpected include in bootstrap file:\n%s", data)
	}
}

func TestDumpLoaderOverride(t *testing.T) {
	dir := newProject(t, `{}`)
	loader := filepath.Join(dir, "lib", "loader.php")

	if _, err := run(t, "dump", "-d", dir, "--loader", loader); err != nil {
		t.Fatalf("dump error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "wp-content", "mu-plugins", "mu-require.php"))
	if err != nil {
		t.Fatalf("bootstrap file not written: %v", err)
	}
	if !strings.Contains(string(data), "lib") || !strings.Contains(string(data), "loader.php'") {
		t.Errorf("bootstrap file does not include the override loader:\n%s", data)
	}
}

func TestDumpDisabled(t *testing.T) {
	dir := newProject(t, `{"extra": {"mu-require-file": false}}`)

	out, err := run(t, "dump", "-d", dir)
	if err != nil {
		t.Fatalf("dump error = %v", err)
	}
	if !strings.Contains(out, "No bootstrap file written") {
		t.Errorf("dump output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "wp-content", "mu-plugins")); !os.IsNotExist(err) {
		t.Errorf("mu-plugins directory created with generation disabled: %v", err)
	}
}

func TestDumpMissingProject(t *testing.T) {
	if _, err := run(t, "dump", "-d", t.TempDir()); err == nil {
		t.Error("dump without composer.json expected error")
	}
}

func TestOverride(t *testing.T) {
	dir := newProject(t, `{"extra": {"force-mu": ["acme-seo"]}}`)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "forced install",
			args: []string{"override", "wpackagist-plugin/acme-seo"},
			want: "wpackagist-plugin/acme-seo: wordpress-plugin -> wordpress-muplugin",
		},
		{
			name: "forced update",
			args: []string{"override", "acme/acme-seo", "--from", "acme/acme-seo"},
			want: "acme/acme-seo: wordpress-plugin -> wordpress-muplugin",
		},
		{
			name: "not forced",
			args: []string{"override", "wpackagist-plugin/akismet"},
			want: "wpackagist-plugin/akismet: wordpress-plugin (unchanged)",
		},
		{
			name: "library untouched",
			args: []string{"override", "vendor/acme-seo", "--type", "library"},
			want: "vendor/acme-seo: library (unchanged)",
		},
		{
			name:    "unknown type",
			args:    []string{"override", "vendor/acme-seo", "--type", "wordpress-plugins"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append(tt.args, "-d", dir)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("override error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !strings.Contains(out, tt.want) {
				t.Errorf("override output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	dir := newProject(t, `{"extra": {"force-mu": ["acme-seo", "query-monitor", "gone"]}}`)
	composerDir := filepath.Join(dir, "vendor", "composer")
	if err := os.MkdirAll(composerDir, 0o755); err != nil {
		t.Fatal(err)
	}
	installed := `{"packages": [
        {"name": "wpackagist-plugin/acme-seo", "type": "wordpress-muplugin"},
        {"name": "wpackagist-plugin/query-monitor", "type": "wordpress-plugin"},
        {"name": "wpackagist-plugin/akismet", "type": "wordpress-plugin"},
        {"name": "monolog/monolog", "type": "library"}
    ]}`
	if err := os.WriteFile(filepath.Join(composerDir, "installed.json"), []byte(installed), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "check", "-d", dir)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}

	for _, want := range []string{
		"PACKAGE",
		"wpackagist-plugin/acme-seo       wordpress-muplugin  yes",
		"wpackagist-plugin/query-monitor  wordpress-plugin    pending reinstall",
		"wpackagist-plugin/akismet        wordpress-plugin    no",
		`force-mu slug "gone" matches no installed plugin`,
		"1 plugin needs reinstalling",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "monolog") {
		t.Errorf("check output lists a library:\n%s", out)
	}
}

func TestCheckNothingInstalled(t *testing.T) {
	out, err := run(t, "check", "-d", newProject(t, `{}`))
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, "No WordPress plugins installed") {
		t.Errorf("check output = %q", out)
	}
}

func TestInfo(t *testing.T) {
	dir := newProject(t, `{"extra": {"force-mu": ["a", "b"], "mu-require-file": "load.php", "force-unix-separator": "1"}}`)

	out, err := run(t, "info", "-d", dir)
	if err != nil {
		t.Fatalf("info error = %v", err)
	}

	for _, want := range []string{
		"force-mu: a, b",
		"mu-require-file: load.php",
		"separator: unix",
		"mu-plugins: " + filepath.Join(dir, "wp-content", "mu-plugins"),
		"include: /../../vendor/boxuk/wp-muplugin-loader/src/mu-loader.php",
		"(not generated)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestUninstall(t *testing.T) {
	dir := newProject(t, `{}`)
	if _, err := run(t, "dump", "-d", dir); err != nil {
		t.Fatalf("dump error = %v", err)
	}

	out, err := run(t, "uninstall", "-d", dir)
	if err != nil {
		t.Fatalf("uninstall error = %v", err)
	}
	target := filepath.Join(dir, "wp-content", "mu-plugins", "mu-require.php")
	if !strings.Contains(out, "Removed "+target) {
		t.Errorf("uninstall output = %q", out)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("bootstrap file still present: %v", err)
	}

	out, err = run(t, "uninstall", "-d", dir)
	if err != nil {
		t.Fatalf("second uninstall error = %v", err)
	}
	if !strings.Contains(out, "No bootstrap file to remove") {
		t.Errorf("second uninstall output = %q", out)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := newProject(t, `{"name": "acme/site"}`)
	manifest := filepath.Join(dir, "composer.json")

	steps := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{args: []string{"config", "force-mu", "add", "wpackagist-plugin/acme-seo"}, want: "Added acme-seo to force-mu"},
		{args: []string{"config", "force-mu", "add", "acme-seo"}, want: "already up to date"},
		{args: []string{"config", "force-mu", "add", "query-monitor"}, want: "Added query-monitor"},
		{args: []string{"config", "force-mu", "remove", "acme-seo"}, want: "Removed acme-seo"},
		{args: []string{"config", "require-file", "load.php"}, want: "Bootstrap file set to load.php"},
		{args: []string{"config", "require-file", "../load.php"}, wantErr: true},
		{args: []string{"config", "unix-separator", "true"}, want: "force-unix-separator set to true"},
		{args: []string{"config", "unix-separator", "maybe"}, wantErr: true},
	}

	for _, step := range steps {
		out, err := run(t, append(step.args, "-d", dir)...)
		if (err != nil) != step.wantErr {
			t.Fatalf("%v error = %v, wantErr %v", step.args, err, step.wantErr)
		}
		if !step.wantErr && !strings.Contains(out, step.want) {
			t.Errorf("%v output = %q, want %q", step.args, out, step.want)
		}
	}

	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	if gjson.GetBytes(data, "extra.force-mu.0").String() != "query-monitor" || gjson.GetBytes(data, "extra.force-mu.#").Int() != 1 {
		t.Errorf("force-mu = %s, want one entry", gjson.GetBytes(data, "extra.force-mu").Raw)
	}
	if got := gjson.GetBytes(data, "extra.mu-require-file").String(); got != "load.php" {
		t.Errorf("mu-require-file = %q", got)
	}
	if !gjson.GetBytes(data, "extra.force-unix-separator").Bool() {
		t.Errorf("force-unix-separator not set:\n%s", data)
	}

	if _, err := run(t, "config", "require-file", "false", "-d", dir); err != nil {
		t.Fatalf("require-file false error = %v", err)
	}
	data, _ = os.ReadFile(manifest)
	if got := gjson.GetBytes(data, "extra.mu-require-file").Raw; got != "false" {
		t.Errorf("mu-require-file = %s, want false", got)
	}
}

func TestServePluginInfo(t *testing.T) {
	out, err := run(t, "serve", "--plugin-info")
	if err != nil {
		t.Fatalf("serve --plugin-info error = %v", err)
	}

	var info plugin.PluginInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("plugin info is not JSON: %v\n%s", err, out)
	}
	if info.Name != plugin.PluginName || info.PluginProtocol != "go-plugin" {
		t.Errorf("plugin info = %+v", info)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "muloader version ") {
		t.Errorf("version output = %q", out)
	}
}
