/*
Package http serves the cache manager over HTTP.

Admin routes inspect and steer the allocation (snapshot, global limit,
clear-all, immediate revision). Bridge routes stand in for a renderer host:
they register and unregister renderers, carry activity and usage reports into
the manager, and let a renderer poll the capacity and clear commands queued
for it.
*/
package http
