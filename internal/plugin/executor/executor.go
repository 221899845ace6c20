// Package executor runs the muloader hooks in an external plugin binary
// over go-plugin RPC.
package executor

import (
	"context"
	"fmt"
	"os/exec"
	"slices"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/muloader/internal/plugin/protocol"
	"github.com/jmylchreest/muloader/pkg/plugin"
)

// ServeArgs start a muloader binary as a plugin server.
var ServeArgs = []string{"serve"}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger the go-plugin client writes to.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRunner replaces the process runner used to query plugin metadata.
func WithRunner(run protocol.Runner) Option {
	return func(e *Executor) {
		e.runner = run
	}
}

// WithArgs appends arguments to the serve command line.
func WithArgs(args ...string) Option {
	return func(e *Executor) {
		e.args = append(e.args, args...)
	}
}

// Executor owns a plugin process and the hooks dispensed from it.
type Executor struct {
	path   string
	logger hclog.Logger
	runner protocol.Runner
	args   []string
	info   plugin.PluginInfo

	client *goplugin.Client
	hooks  plugin.Hooks
}

// New checks that the binary at pluginPath is a compatible muloader plugin.
// The process is started on the first call to Hooks.
func New(ctx context.Context, pluginPath string, opts ...Option) (*Executor, error) {
	e := &Executor{
		path:   pluginPath,
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	info, err := protocol.Detect(ctx, pluginPath, e.runner)
	if err != nil {
		return nil, fmt.Errorf("failed to detect plugin protocol: %w", err)
	}
	e.info = info

	e.logger.Debug("detected plugin", "path", pluginPath, "name", info.Name, "version", info.Version, "protocol", info.ProtocolVersion)
	return e, nil
}

// Path returns the plugin binary path.
func (e *Executor) Path() string {
	return e.path
}

// Info returns the metadata the plugin reported.
func (e *Executor) Info() plugin.PluginInfo {
	return e.info
}

// Hooks starts the plugin process if needed and returns its hooks.
func (e *Executor) Hooks() (plugin.Hooks, error) {
	if e.hooks != nil {
		return e.hooks, nil
	}

	e.client = goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  plugin.Handshake,
		Plugins:          plugin.PluginMap(nil),
		Cmd:              exec.Command(e.path, e.serveArgs()...),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           e.logger.Named("plugin"),
	})

	rpcClient, err := e.client.Client()
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(plugin.PluginName)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	hooks, ok := raw.(plugin.Hooks)
	if !ok {
		e.Close()
		return nil, fmt.Errorf("plugin dispensed %T, not muloader hooks", raw)
	}

	e.hooks = hooks
	return hooks, nil
}

func (e *Executor) serveArgs() []string {
	return append(slices.Clone(ServeArgs), e.args...)
}

// Close kills the plugin process.
func (e *Executor) Close() {
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.hooks = nil
	}
}
