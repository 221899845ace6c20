// Package plugin provides the public API for driving muloader out of process.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current plugin API version.
	// Format: MAJOR.MINOR.PATCH.
	// - Increment MAJOR for breaking changes (incompatible API changes).
	// - Increment MINOR for backward-compatible additions.
	// - Increment PATCH for backward-compatible bug fixes.
	ProtocolVersion = "1.0.0"

	// MinCompatibleVersion is the oldest protocol version a host can work with.
	MinCompatibleVersion = "1.0.0"

	// PluginName is the name the hooks are dispensed under.
	PluginName = "muloader"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that plugins using go-plugin can only connect to compatible hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1, // Major version from ProtocolVersion
	MagicCookieKey:   "MULOADER_PLUGIN",
	MagicCookieValue: "wordpress_muplugin_loader",
}

// PluginMap returns the plugin set a host passes to go-plugin.
func PluginMap(impl Hooks) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginName: &HooksRPC{Impl: impl},
	}
}
