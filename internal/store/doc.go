// Package store persists synced GitHub data in a local SQLite database.
//
// The schema has three tables: users (one row per GitHub account seen, with
// last-sync timestamps and a tracked flag for accounts clients logged in
// as), repos (normalized repository rows keyed by GitHub id), and followers
// (a relation table keyed by followed/follower id pairs).
//
// All writes are upserts keyed on the GitHub id, so repeated syncs converge
// instead of duplicating rows. Each server session owns its own Store
// handle; handles are cheap and are reacquired transparently when a
// liveness check fails.
package store
