// Package muloader implements the must-use plugin loader: forcing selected
// WordPress plugins to install as must-use plugins and generating the
// bootstrap file that loads them.
package muloader

// Package types understood by the WordPress installers.
const (
	TypePlugin   = "wordpress-plugin"
	TypeMuPlugin = "wordpress-muplugin"
)

// MirrorPrefix is the vendor prefix WPackagist gives plugins mirrored from
// the wordpress.org directory.
const MirrorPrefix = "wpackagist-plugin/"

// Package is a package taking part in a dependency-resolution operation.
// Packages are owned by the host; muloader only reads them and, for forced
// plugins, changes the type.
type Package interface {
	Name() string
	Type() string
	SetType(pkgType string)
}

// BasicPackage is a minimal Package.
type BasicPackage struct {
	name    string
	pkgType string
}

// NewPackage creates a BasicPackage.
func NewPackage(name, pkgType string) *BasicPackage {
	return &BasicPackage{name: name, pkgType: pkgType}
}

// Name returns the package name, e.g. "wpackagist-plugin/query-monitor".
func (p *BasicPackage) Name() string {
	return p.name
}

// Type returns the package type.
func (p *BasicPackage) Type() string {
	return p.pkgType
}

// SetType changes the package type.
func (p *BasicPackage) SetType(pkgType string) {
	p.pkgType = pkgType
}

// Operation is an install or update operation. It is implemented only by
// InstallOperation and UpdateOperation.
type Operation interface {
	// ResultPackage returns the package the operation leaves installed.
	ResultPackage() Package

	// Kind returns "install" or "update".
	Kind() string

	operation()
}

// InstallOperation installs a new package.
type InstallOperation struct {
	Package Package
}

// ResultPackage returns the package being installed.
func (o InstallOperation) ResultPackage() Package { return o.Package }

// Kind returns "install".
func (o InstallOperation) Kind() string { return "install" }

func (InstallOperation) operation() {}

// UpdateOperation replaces Initial with Target.
type UpdateOperation struct {
	Initial Package
	Target  Package
}

// ResultPackage returns the target package. The initial package is never inspected.
func (o UpdateOperation) ResultPackage() Package { return o.Target }

// Kind returns "update".
func (o UpdateOperation) Kind() string { return "update" }

func (UpdateOperation) operation() {}
