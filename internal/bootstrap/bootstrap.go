// Package bootstrap generates the must-use plugin bootstrap file.
//
// The bootstrap file lives in the mu-plugins directory and requires the
// vendor-installed mu-loader script through a path relative to __DIR__.
package bootstrap

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/jmylchreest/muloader/internal/config"
	"github.com/jmylchreest/muloader/internal/relpath"
)

// Version is written into the generated docblock. Bump it on release.
const Version = "2.0.0"

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

//go:embed mu-require.php.tmpl
var muRequireTemplate string

var tmpl = template.Must(template.New("mu-require").Parse(muRequireTemplate))

// Header holds the docblock fields of the generated file.
type Header struct {
	Name        string
	URI         string
	Description string
	Version     string
	Author      string
	AuthorURI   string
	Since       string
}

// DefaultHeader returns the fixed identifying metadata of the bootstrap file.
func DefaultHeader() Header {
	return Header{
		Name:        "MU Plugin Loader",
		URI:         "https://github.com/boxuk/wp-muplugin-loader",
		Description: "MU Plugin Loader - Autoload your mu-plugin directories.",
		Version:     Version,
		Author:      "Box UK / Luke Woodward",
		AuthorURI:   "https://github.com/boxuk/wp-muplugin-loader",
		Since:       "1.1.0",
	}
}

type templateData struct {
	Header
	Include string
}

// DirectoryCreationError is returned when the mu-plugins directory could not
// be created and does not exist afterwards.
type DirectoryCreationError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("directory %q was not created: %v", e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *DirectoryCreationError) Unwrap() error {
	return e.Err
}

// IncludePath returns the path appended to __DIR__ in the generated file:
// the separator followed by the relative path from muPluginsDir to the loader.
func IncludePath(muPluginsDir, loaderScriptPath string, sep config.SeparatorStyle) string {
	s := sep.Separator()
	return s + relpath.Rel(muPluginsDir, loaderScriptPath, s)
}

// Render returns the bootstrap file content without touching the filesystem.
func Render(muPluginsDir, loaderScriptPath string, cfg config.Config) ([]byte, error) {
	data := templateData{
		Header:  DefaultHeader(),
		Include: quote(IncludePath(muPluginsDir, loaderScriptPath, cfg.Separator)),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render bootstrap file: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate writes the bootstrap file into muPluginsDir and returns its path.
//
// It is a no-op returning "" when cfg disables generation. The directory is
// created with its parents when missing. Any existing file is overwritten in
// full, so identical inputs always produce identical content.
func Generate(muPluginsDir, loaderScriptPath string, cfg config.Config) (string, error) {
	if !cfg.Generates() {
		return "", nil
	}

	if err := ensureDir(muPluginsDir); err != nil {
		return "", err
	}

	content, err := Render(muPluginsDir, loaderScriptPath, cfg)
	if err != nil {
		return "", err
	}

	target := filepath.Join(muPluginsDir, cfg.RequireFile)
	if err := os.WriteFile(target, content, filePerm); err != nil {
		return "", fmt.Errorf("failed to write bootstrap file %q: %w", target, err)
	}

	return target, nil
}

// Remove deletes the bootstrap file at path. A missing file is not an error.
// It reports whether a file was removed.
func Remove(path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove bootstrap file %q: %w", path, err)
	}
	return true, nil
}

func ensureDir(dir string) error {
	err := os.MkdirAll(dir, dirPerm)
	if err == nil {
		return nil
	}
	if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
		return nil
	}
	return &DirectoryCreationError{Path: dir, Err: err}
}

// quote escapes s for use inside a PHP single-quoted string literal.
// Backslashes are only doubled where PHP would otherwise read them as an
// escape, so Windows separators are written as-is.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\'':
			b.WriteString(`\'`)
		case s[i] == '\\' && (i+1 == len(s) || s[i+1] == '\'' || s[i+1] == '\\'):
			b.WriteString(`\\`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
