// Package server implements the TCP session engine: a listener that spawns
// one goroutine per client, a login phase with unlimited retries, and an
// exact-match command router over the sync/list operations.
//
// Each session owns its own SQLite store handle; the only state shared
// between sessions is the ConnectionRegistry counter. The accept loop polls
// a shutdown channel between bounded Accept waits, so Stop takes effect
// within a second without interrupting in-flight sessions.
package server
