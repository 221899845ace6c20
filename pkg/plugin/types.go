// Package plugin provides the public API for driving muloader out of process.
package plugin

// Operation kinds carried by PackageEvent.
const (
	OperationInstall = "install"
	OperationUpdate  = "update"
)

// HostContext is the host state a hook needs. The host resolves the
// must-use install path itself since installer-path resolution stays on
// its side of the connection.
type HostContext struct {
	// Extra is the raw JSON of the root package's "extra" block.
	Extra []byte `json:"extra"`

	// BaseDir is the project root.
	BaseDir string `json:"base_dir"`

	// VendorDir is the absolute vendor directory.
	VendorDir string `json:"vendor_dir"`

	// MuInstallPath is where the host would install a must-use plugin
	// named "dummy". Empty when the host has none.
	MuInstallPath string `json:"mu_install_path"`
}

// PackageData describes a package on the wire.
type PackageData struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PackageEvent is a pre-package-install or pre-package-update event.
type PackageEvent struct {
	// Event is the lifecycle event name.
	Event string `json:"event"`

	// Operation is OperationInstall or OperationUpdate.
	Operation string `json:"operation"`

	// Package is the installed package, or the update target.
	Package PackageData `json:"package"`

	// Initial is the package being replaced by an update.
	Initial PackageData `json:"initial,omitempty"`
}

// PackageEventResult tells the host which type to install the package as.
type PackageEventResult struct {
	Type    string `json:"type"`
	Changed bool   `json:"changed"`
}

// DumpResult reports the outcome of a pre-autoload-dump event.
type DumpResult struct {
	Path    string `json:"path"`
	Written bool   `json:"written"`
}

// UninstallResult reports the outcome of an uninstall.
type UninstallResult struct {
	Path    string `json:"path"`
	Removed bool   `json:"removed"`
}
