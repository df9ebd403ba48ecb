// Package tui implements the interactive terminal for the ghsync client:
// a transcript viewport over the session, a single input line that serves
// both the login phase and the command phase, and styled rendering of
// server responses. Built on bubbletea with bubbles components.
package tui
