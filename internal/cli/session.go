package cli

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/muloader/internal/composer"
	"github.com/jmylchreest/muloader/internal/muloader"
	"github.com/jmylchreest/muloader/internal/plugin/executor"
	"github.com/jmylchreest/muloader/pkg/plugin"
)

// session runs the plugin lifecycle against a project, either in process
// or in an external binary.
type session interface {
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error

	// Package dispatches a package event for op and returns the resulting type.
	Package(ctx context.Context, event muloader.EventName, op muloader.Operation) (string, bool, error)

	// Dump writes the bootstrap file and returns its path, or "" when skipped.
	Dump(ctx context.Context) (string, error)

	// Uninstall removes the bootstrap file and returns its path, or "" when absent.
	Uninstall(ctx context.Context) (string, error)

	Close()
}

// openSession loads the project and starts a session for it.
func openSession(ctx context.Context, opts *options, logger hclog.Logger) (*composer.Project, session, error) {
	project, err := composer.Load(opts.workDir)
	if err != nil {
		return nil, nil, err
	}

	if opts.pluginPath == "" {
		return project, newLocalSession(project, opts, logger), nil
	}

	var args []string
	if opts.loaderPath != "" {
		args = append(args, "--loader", opts.loaderPath)
	}
	remote, err := executor.New(ctx, opts.pluginPath,
		executor.WithLogger(logger),
		executor.WithArgs(args...),
	)
	if err != nil {
		return nil, nil, err
	}
	return project, &remoteSession{project: project, exec: remote}, nil
}

func pluginOptions(opts *options, logger hclog.Logger) []muloader.Option {
	pluginOpts := []muloader.Option{muloader.WithLogger(logger)}
	if opts.loaderPath != "" {
		pluginOpts = append(pluginOpts, muloader.WithLoaderPath(opts.loaderPath))
	}
	return pluginOpts
}

// localSession runs the plugin in process.
type localSession struct {
	project    *composer.Project
	plugin     *muloader.Plugin
	dispatcher *muloader.Dispatcher
}

func newLocalSession(project *composer.Project, opts *options, logger hclog.Logger) *localSession {
	p := muloader.New(pluginOptions(opts, logger)...)
	return &localSession{
		project:    project,
		plugin:     p,
		dispatcher: muloader.NewDispatcher(logger, p),
	}
}

func (s *localSession) Activate(context.Context) error {
	s.plugin.Activate(s.project)
	return nil
}

func (s *localSession) Deactivate(context.Context) error {
	s.plugin.Deactivate()
	return nil
}

func (s *localSession) Package(_ context.Context, event muloader.EventName, op muloader.Operation) (string, bool, error) {
	pkg := op.ResultPackage()
	before := pkg.Type()
	if err := s.dispatcher.Dispatch(muloader.Event{Name: event, Host: s.project, Operation: op}); err != nil {
		return "", false, err
	}
	return pkg.Type(), pkg.Type() != before, nil
}

func (s *localSession) Dump(context.Context) (string, error) {
	return s.plugin.DumpRequireFile(s.project)
}

func (s *localSession) Uninstall(context.Context) (string, error) {
	return s.plugin.Uninstall(s.project)
}

func (s *localSession) Close() {}

// remoteSession runs the plugin in an external binary over RPC.
type remoteSession struct {
	project *composer.Project
	exec    *executor.Executor
}

func (s *remoteSession) hooks() (plugin.Hooks, plugin.HostContext, error) {
	hooks, err := s.exec.Hooks()
	if err != nil {
		return nil, plugin.HostContext{}, err
	}
	host, err := hostContext(s.project)
	if err != nil {
		return nil, plugin.HostContext{}, err
	}
	return hooks, host, nil
}

func (s *remoteSession) Activate(ctx context.Context) error {
	hooks, host, err := s.hooks()
	if err != nil {
		return err
	}
	return hooks.Activate(ctx, host)
}

func (s *remoteSession) Deactivate(ctx context.Context) error {
	hooks, err := s.exec.Hooks()
	if err != nil {
		return err
	}
	return hooks.Deactivate(ctx)
}

func (s *remoteSession) Package(ctx context.Context, event muloader.EventName, op muloader.Operation) (string, bool, error) {
	hooks, err := s.exec.Hooks()
	if err != nil {
		return "", false, err
	}

	result, err := hooks.PrePackage(ctx, packageEvent(event, op))
	if err != nil {
		return "", false, err
	}
	if result.Changed {
		op.ResultPackage().SetType(result.Type)
	}
	return result.Type, result.Changed, nil
}

func (s *remoteSession) Dump(ctx context.Context) (string, error) {
	hooks, host, err := s.hooks()
	if err != nil {
		return "", err
	}
	result, err := hooks.PreAutoloadDump(ctx, host)
	return result.Path, err
}

func (s *remoteSession) Uninstall(ctx context.Context) (string, error) {
	hooks, host, err := s.hooks()
	if err != nil {
		return "", err
	}
	result, err := hooks.Uninstall(ctx, host)
	return result.Path, err
}

func (s *remoteSession) Close() {
	s.exec.Close()
}

// hostContext resolves what the remote plugin needs from the project.
func hostContext(project *composer.Project) (plugin.HostContext, error) {
	muPath, err := project.InstallPath(muloader.NewPackage(muloader.ProbeName, muloader.TypeMuPlugin))
	if err != nil {
		return plugin.HostContext{}, fmt.Errorf("failed to resolve mu-plugins install path: %w", err)
	}
	return plugin.HostContext{
		Extra:         project.Extra(),
		BaseDir:       project.BaseDir(),
		VendorDir:     project.VendorDir(),
		MuInstallPath: muPath,
	}, nil
}

func packageEvent(event muloader.EventName, op muloader.Operation) plugin.PackageEvent {
	pe := plugin.PackageEvent{
		Event:     string(event),
		Operation: op.Kind(),
		Package:   packageData(op.ResultPackage()),
	}
	if update, ok := op.(muloader.UpdateOperation); ok {
		pe.Initial = packageData(update.Initial)
	}
	return pe
}

func packageData(pkg muloader.Package) plugin.PackageData {
	if pkg == nil {
		return plugin.PackageData{}
	}
	return plugin.PackageData{Name: pkg.Name(), Type: pkg.Type()}
}
