package muloader

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/muloader/internal/bootstrap"
	"github.com/jmylchreest/muloader/internal/config"
)

// LoaderPackage is the vendor package that ships the mu-loader script.
const LoaderPackage = "boxuk/wp-muplugin-loader"

// ProbeName is the name of the package used to ask the host where
// must-use plugins are installed.
const ProbeName = "dummy"

// Host is the package manager driving the plugin.
type Host interface {
	// Extra returns the raw JSON of the root package's "extra" block.
	Extra() []byte

	// BaseDir returns the project root. Relative install paths are resolved against it.
	BaseDir() string

	// VendorDir returns the absolute vendor directory.
	VendorDir() string

	// InstallPath returns where the host would install pkg.
	InstallPath(pkg Package) (string, error)
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLoaderPath overrides the location of the mu-loader script.
func WithLoaderPath(path string) Option {
	return func(p *Plugin) {
		p.loaderPath = path
	}
}

// Plugin is the muloader package-manager plugin. It holds the configuration
// snapshot taken on activation; the snapshot is only written by Activate,
// Deactivate and Uninstall.
type Plugin struct {
	logger     hclog.Logger
	loaderPath string

	cfg    config.Config
	active bool
}

// New creates an inactive Plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Activate takes the configuration snapshot from the host and enables the handlers.
func (p *Plugin) Activate(host Host) {
	p.cfg = config.Parse(host.Extra())
	p.active = true

	p.logger.Debug("activated",
		"force_mu", p.cfg.ForceMu,
		"require_file", p.cfg.RequireFile,
		"require_file_disabled", p.cfg.RequireFileDisabled,
		"separator", p.cfg.Separator.String(),
	)
}

// Deactivate clears the snapshot. All handlers become no-ops.
func (p *Plugin) Deactivate() {
	p.cfg = config.Config{}
	p.active = false
	p.logger.Debug("deactivated")
}

// Active reports whether the plugin is activated.
func (p *Plugin) Active() bool {
	return p.active
}

// Config returns the current configuration snapshot.
func (p *Plugin) Config() config.Config {
	return p.cfg
}

// Uninstall deactivates the plugin and removes the generated bootstrap file.
// The file name is read from the host configuration since the snapshot is
// normally cleared by the time a plugin is uninstalled. It returns the path
// of the removed file, or "" when there was nothing to remove.
func (p *Plugin) Uninstall(host Host) (string, error) {
	p.active = false

	muPath, err := p.MuPath(host)
	if err != nil {
		return "", err
	}
	if muPath == "" {
		return "", nil
	}

	target := filepath.Join(muPath, config.Parse(host.Extra()).FileName())
	removed, err := bootstrap.Remove(target)
	if err != nil {
		return "", err
	}
	if !removed {
		p.logger.Debug("no bootstrap file to remove", "path", target)
		return "", nil
	}

	p.logger.Info("removed bootstrap file", "path", target)
	return target, nil
}

// OverridePluginTypes forces the package resulting from op to the must-use
// type when the allowlist names it. It reports whether the type changed.
func (p *Plugin) OverridePluginTypes(op Operation) bool {
	if !p.active || op == nil {
		return false
	}

	pkg := op.ResultPackage()
	if !OverrideType(pkg, p.cfg) {
		return false
	}

	p.logger.Info("forcing must-use plugin", "package", pkg.Name(), "operation", op.Kind())
	return true
}

// DumpRequireFile writes the bootstrap file into the mu-plugins directory.
// It returns the written path, or "" when nothing was written.
func (p *Plugin) DumpRequireFile(host Host) (string, error) {
	if !p.active {
		return "", nil
	}

	muPath, err := p.MuPath(host)
	if err != nil {
		return "", err
	}
	if muPath == "" {
		p.logger.Debug("no mu-plugins install path, skipping bootstrap file")
		return "", nil
	}

	if !p.cfg.Generates() {
		p.logger.Debug("bootstrap file generation disabled")
		return "", nil
	}

	path, err := bootstrap.Generate(muPath, p.LoaderPath(host), p.cfg)
	if err != nil {
		return "", err
	}

	p.logger.Info("wrote bootstrap file", "path", path)
	return path, nil
}

// MuPath returns the absolute mu-plugins directory, derived from where the
// host would install a must-use plugin. It returns "" when the host has no
// install path for must-use plugins.
func (p *Plugin) MuPath(host Host) (string, error) {
	installPath, err := host.InstallPath(NewPackage(ProbeName, TypeMuPlugin))
	if err != nil {
		return "", fmt.Errorf("failed to resolve mu-plugins install path: %w", err)
	}
	if installPath == "" {
		return "", nil
	}

	dir := filepath.Dir(filepath.Clean(installPath))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(host.BaseDir(), dir)
	}
	return dir, nil
}

// LoaderPath returns the absolute path of the mu-loader script.
func (p *Plugin) LoaderPath(host Host) string {
	if p.loaderPath != "" {
		return p.loaderPath
	}
	return filepath.Join(host.VendorDir(), filepath.FromSlash(LoaderPackage), "src", "mu-loader.php")
}

// SubscribedEvents returns the handler-registration table.
func (p *Plugin) SubscribedEvents() map[EventName]Handler {
	return map[EventName]Handler{
		EventPrePackageInstall: p.handlePackageEvent,
		EventPrePackageUpdate:  p.handlePackageEvent,
		EventPreAutoloadDump:   p.handleAutoloadDump,
	}
}

func (p *Plugin) handlePackageEvent(ev Event) error {
	p.OverridePluginTypes(ev.Operation)
	return nil
}

func (p *Plugin) handleAutoloadDump(ev Event) error {
	if ev.Host == nil {
		return ErrNoHost
	}
	_, err := p.DumpRequireFile(ev.Host)
	return err
}
