// Package plugin provides the public API for driving muloader out of process.
package plugin

import (
	"context"
)

// Hooks is the interface the muloader plugin implements for go-plugin RPC.
// Plugin state lives on the plugin side: Activate takes the configuration
// snapshot that later events use until Deactivate or Uninstall.
type Hooks interface {
	// GetMetadata returns plugin metadata.
	GetMetadata(ctx context.Context) (PluginInfo, error)

	// SubscribedEvents returns the names of the events the plugin handles.
	SubscribedEvents(ctx context.Context) ([]string, error)

	// Activate takes the configuration snapshot and enables the handlers.
	Activate(ctx context.Context, host HostContext) error

	// Deactivate clears the snapshot.
	Deactivate(ctx context.Context) error

	// Uninstall deactivates the plugin and removes the generated file.
	Uninstall(ctx context.Context, host HostContext) (UninstallResult, error)

	// PrePackage handles pre-package-install and pre-package-update.
	PrePackage(ctx context.Context, event PackageEvent) (PackageEventResult, error)

	// PreAutoloadDump handles pre-autoload-dump.
	PreAutoloadDump(ctx context.Context, host HostContext) (DumpResult, error)
}
