// Command cachemgr runs the renderer cache allocation manager with its admin
// and renderer bridge HTTP API.
//
// Configuration comes from the environment (see internal/infrastructure/config)
// and can be overridden with flags:
//
//	cachemgr -port 8090 -limit 33554432 -low-end auto -dev
//
// SIGINT and SIGTERM cancel pending revisions and shut the server down.
package main
