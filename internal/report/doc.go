// Package report assembles the human-readable text blocks the server sends:
// the post-login status summary, the repo and follower tables, and the help
// text. Timestamps render as DD/MM/YYYY HH:MM, or "never" before the first
// sync. The session engine treats these blocks as opaque payloads.
package report
