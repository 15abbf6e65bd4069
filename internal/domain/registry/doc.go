// Package registry tracks the live renderer processes of the host.
//
// The registry is the process-handle lookup the cache manager enacts its
// strategy through. Each registered renderer gets a bounded outbox of cache
// commands; a full outbox drops the command, matching the fire-and-forget
// delivery the manager expects.
//
// Components:
//   - Manager: Register/Unregister/Lookup of renderer handles
//   - Process: Handle implementing webcache.Process over an outbox channel
//
// Registering or unregistering a renderer notifies the bound Lifecycle, so
// the cache manager learns about processes without a notification bus.
//
// Example Usage:
//
//	reg := registry.NewManager(16, logger)
//	mgr := webcache.NewManager(webcache.Options{Host: reg})
//	reg.WithLifecycle(mgr)
//
//	proc := reg.Register(42)
//	mgr.ObserveStats(42, stats)
//	msgs := proc.Drain()
package registry
