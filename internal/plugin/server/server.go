// Package server exposes the muloader plugin over go-plugin RPC.
package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/muloader/internal/muloader"
	"github.com/jmylchreest/muloader/internal/version"
	"github.com/jmylchreest/muloader/pkg/plugin"
)

// Description is reported in the plugin metadata.
const Description = "Forces selected WordPress plugins to must-use plugins and writes the bootstrap file that loads them"

// Hooks adapts a muloader.Plugin to plugin.Hooks.
type Hooks struct {
	// net/rpc serves calls concurrently; the plugin is not safe for concurrent use.
	mu         sync.Mutex
	plugin     *muloader.Plugin
	dispatcher *muloader.Dispatcher
	logger     hclog.Logger
}

// New creates Hooks around p.
func New(p *muloader.Plugin, logger hclog.Logger) *Hooks {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Hooks{
		plugin:     p,
		dispatcher: muloader.NewDispatcher(logger, p),
		logger:     logger,
	}
}

// GetMetadata returns the plugin metadata.
func (h *Hooks) GetMetadata(_ context.Context) (plugin.PluginInfo, error) {
	return Info(), nil
}

// SubscribedEvents returns the events the plugin handles.
func (h *Hooks) SubscribedEvents(_ context.Context) ([]string, error) {
	events := h.dispatcher.Events()
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = string(ev)
	}
	return names, nil
}

// Activate takes the configuration snapshot from the host context.
func (h *Hooks) Activate(_ context.Context, host plugin.HostContext) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.plugin.Activate(snapshot(host))
	return nil
}

// Deactivate disables the plugin.
func (h *Hooks) Deactivate(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.plugin.Deactivate()
	return nil
}

// Uninstall removes the generated bootstrap file.
func (h *Hooks) Uninstall(_ context.Context, host plugin.HostContext) (plugin.UninstallResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	path, err := h.plugin.Uninstall(snapshot(host))
	if err != nil {
		return plugin.UninstallResult{}, err
	}
	return plugin.UninstallResult{Path: path, Removed: path != ""}, nil
}

// PrePackage dispatches a package event and returns the resulting package type.
func (h *Hooks) PrePackage(_ context.Context, event plugin.PackageEvent) (plugin.PackageEventResult, error) {
	name := muloader.EventName(event.Event)
	if name != muloader.EventPrePackageInstall && name != muloader.EventPrePackageUpdate {
		return plugin.PackageEventResult{}, fmt.Errorf("%q is not a package event", event.Event)
	}

	op, err := operation(event)
	if err != nil {
		return plugin.PackageEventResult{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	pkg := op.ResultPackage()
	before := pkg.Type()
	if err := h.dispatcher.Dispatch(muloader.Event{
		Name:      name,
		Operation: op,
	}); err != nil {
		return plugin.PackageEventResult{}, err
	}

	return plugin.PackageEventResult{Type: pkg.Type(), Changed: pkg.Type() != before}, nil
}

// PreAutoloadDump writes the bootstrap file.
func (h *Hooks) PreAutoloadDump(_ context.Context, host plugin.HostContext) (plugin.DumpResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	path, err := h.plugin.DumpRequireFile(snapshot(host))
	if err != nil {
		return plugin.DumpResult{}, err
	}
	return plugin.DumpResult{Path: path, Written: path != ""}, nil
}

// Info returns the metadata printed by "serve --plugin-info".
func Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            plugin.PluginName,
		Version:         version.Short(),
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     Description,
		PluginProtocol:  "go-plugin",
	}
}

// Serve runs the plugin as a go-plugin server until the host disconnects.
func Serve(logger hclog.Logger, opts ...muloader.Option) {
	opts = append([]muloader.Option{muloader.WithLogger(logger)}, opts...)
	hooks := New(muloader.New(opts...), logger)

	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: plugin.Handshake,
		Plugins:         plugin.PluginMap(hooks),
		Logger:          logger,
	})
}

func operation(event plugin.PackageEvent) (muloader.Operation, error) {
	target := muloader.NewPackage(event.Package.Name, event.Package.Type)

	switch event.Operation {
	case plugin.OperationInstall:
		return muloader.InstallOperation{Package: target}, nil
	case plugin.OperationUpdate:
		initial := muloader.NewPackage(event.Initial.Name, event.Initial.Type)
		return muloader.UpdateOperation{Initial: initial, Target: target}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", event.Operation)
	}
}

// hostSnapshot is the host as seen from the plugin process.
type hostSnapshot struct {
	ctx plugin.HostContext
}

func snapshot(ctx plugin.HostContext) muloader.Host {
	return hostSnapshot{ctx: ctx}
}

func (h hostSnapshot) Extra() []byte     { return h.ctx.Extra }
func (h hostSnapshot) BaseDir() string   { return h.ctx.BaseDir }
func (h hostSnapshot) VendorDir() string { return h.ctx.VendorDir }

// InstallPath answers only for must-use plugins, the one type the host resolves up front.
func (h hostSnapshot) InstallPath(pkg muloader.Package) (string, error) {
	if pkg.Type() != muloader.TypeMuPlugin {
		return "", fmt.Errorf("no install path for type %q", pkg.Type())
	}
	return h.ctx.MuInstallPath, nil
}
