// Package service orchestrates between the GitHub API client and the local
// store: validating logins, running syncs, and summarizing stored state.
//
// The Service is stateless. Sessions own their store handles and pass them
// into every call, which keeps the lazy-reconnect policy in exactly one
// place (the session) while the service stays trivially testable with a
// fake Fetcher.
package service
