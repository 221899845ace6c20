package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/jmylchreest/muloader/pkg/plugin"
)

// DetectTimeout bounds the --plugin-info query.
const DetectTimeout = 5 * time.Second

// PluginInfo is a type alias to the public plugin.PluginInfo type.
type PluginInfo = plugin.PluginInfo

// InfoArgs are the arguments that make a muloader binary print its metadata.
var InfoArgs = []string{"serve", "--plugin-info"}

// Runner runs a command and returns its standard output.
type Runner func(ctx context.Context, path string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, path string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out, err
}

// Detect queries a plugin binary for its metadata and checks that it
// speaks a compatible go-plugin protocol.
func Detect(ctx context.Context, pluginPath string, run Runner) (PluginInfo, error) {
	if run == nil {
		run = ExecRunner
	}

	ctx, cancel := context.WithTimeout(ctx, DetectTimeout)
	defer cancel()

	output, err := run(ctx, pluginPath, InfoArgs...)
	if err != nil {
		return PluginInfo{}, fmt.Errorf("failed to query plugin: %w", err)
	}

	var info PluginInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return PluginInfo{}, fmt.Errorf("failed to parse plugin info: %w", err)
	}

	if info.PluginProtocol != "go-plugin" {
		return info, fmt.Errorf("unsupported plugin_protocol: %q", info.PluginProtocol)
	}

	if _, err := IsCompatible(info.ProtocolVersion); err != nil {
		return info, err
	}

	return info, nil
}
