// Package server wires configuration, logging, metrics, the renderer registry
// and the cache manager behind a Gin router, and owns graceful shutdown.
package server
