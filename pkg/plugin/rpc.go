// Package plugin provides the public API for driving muloader out of process.
package plugin

import (
	"context"
	"errors"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// HooksRPC implements the go-plugin Plugin interface for the muloader hooks.
type HooksRPC struct {
	plugin.Plugin
	Impl Hooks
}

// Server returns an RPC server for this plugin.
func (p *HooksRPC) Server(*plugin.MuxBroker) (any, error) {
	return &HooksRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *HooksRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &HooksRPCClient{client: c}, nil
}

// HooksRPCServer is the RPC server implementation of Hooks.
type HooksRPCServer struct {
	Impl Hooks
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *HooksRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	info, err := s.Impl.GetMetadata(context.Background())
	if err != nil {
		return err
	}
	*resp = info
	return nil
}

// SubscribedEvents implements the RPC method for listing handled events.
func (s *HooksRPCServer) SubscribedEvents(_ any, resp *[]string) error {
	events, err := s.Impl.SubscribedEvents(context.Background())
	if err != nil {
		return err
	}
	*resp = events
	return nil
}

// Activate implements the RPC method for plugin activation.
func (s *HooksRPCServer) Activate(host HostContext, resp *bool) error {
	if err := s.Impl.Activate(context.Background(), host); err != nil {
		return err
	}
	*resp = true
	return nil
}

// Deactivate implements the RPC method for plugin deactivation.
func (s *HooksRPCServer) Deactivate(_ any, resp *bool) error {
	if err := s.Impl.Deactivate(context.Background()); err != nil {
		return err
	}
	*resp = true
	return nil
}

// Uninstall implements the RPC method for plugin removal.
func (s *HooksRPCServer) Uninstall(host HostContext, resp *UninstallResult) error {
	result, err := s.Impl.Uninstall(context.Background(), host)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

// PrePackage implements the RPC method for package events.
func (s *HooksRPCServer) PrePackage(event PackageEvent, resp *PackageEventResult) error {
	result, err := s.Impl.PrePackage(context.Background(), event)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

// PreAutoloadDump implements the RPC method for autoload dump events.
func (s *HooksRPCServer) PreAutoloadDump(host HostContext, resp *DumpResult) error {
	result, err := s.Impl.PreAutoloadDump(context.Background(), host)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

// HooksRPCClient is the RPC client implementation of Hooks.
type HooksRPCClient struct {
	client *rpc.Client
}

// GetMetadata calls the remote GetMetadata method.
func (c *HooksRPCClient) GetMetadata(_ context.Context) (PluginInfo, error) {
	var info PluginInfo
	err := c.client.Call("Plugin.GetMetadata", new(any), &info)
	return info, wrapError(err)
}

// SubscribedEvents calls the remote SubscribedEvents method.
func (c *HooksRPCClient) SubscribedEvents(_ context.Context) ([]string, error) {
	var events []string
	err := c.client.Call("Plugin.SubscribedEvents", new(any), &events)
	return events, wrapError(err)
}

// Activate calls the remote Activate method.
func (c *HooksRPCClient) Activate(_ context.Context, host HostContext) error {
	var ok bool
	return wrapError(c.client.Call("Plugin.Activate", host, &ok))
}

// Deactivate calls the remote Deactivate method.
func (c *HooksRPCClient) Deactivate(_ context.Context) error {
	var ok bool
	return wrapError(c.client.Call("Plugin.Deactivate", new(any), &ok))
}

// Uninstall calls the remote Uninstall method.
func (c *HooksRPCClient) Uninstall(_ context.Context, host HostContext) (UninstallResult, error) {
	var result UninstallResult
	err := c.client.Call("Plugin.Uninstall", host, &result)
	return result, wrapError(err)
}

// PrePackage calls the remote PrePackage method.
func (c *HooksRPCClient) PrePackage(_ context.Context, event PackageEvent) (PackageEventResult, error) {
	var result PackageEventResult
	err := c.client.Call("Plugin.PrePackage", event, &result)
	return result, wrapError(err)
}

// PreAutoloadDump calls the remote PreAutoloadDump method.
func (c *HooksRPCClient) PreAutoloadDump(_ context.Context, host HostContext) (DumpResult, error) {
	var result DumpResult
	err := c.client.Call("Plugin.PreAutoloadDump", host, &result)
	return result, wrapError(err)
}

// RPCError represents an error returned by the plugin side of an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}

// wrapError turns errors returned by the remote hooks into RPCErrors.
// Transport errors are returned unchanged.
func wrapError(err error) error {
	var serverErr rpc.ServerError
	if errors.As(err, &serverErr) {
		return &RPCError{Message: string(serverErr)}
	}
	return err
}
