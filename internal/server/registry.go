package server

import "sync"

// ConnectionRegistry counts live sessions. It is the only state shared
// between session goroutines; every mutation is a single locked
// read-modify-write and returns the post-mutation value so callers can log
// it without a second (racy) read.
type ConnectionRegistry struct {
	mu    sync.Mutex
	count int
}

// Inc registers a new session and returns the new count.
func (r *ConnectionRegistry) Inc() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return r.count
}

// Dec unregisters a finished session and returns the new count.
func (r *ConnectionRegistry) Dec() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count--
	return r.count
}

// Count returns the current number of live sessions.
func (r *ConnectionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
