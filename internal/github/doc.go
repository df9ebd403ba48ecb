// Package github is a minimal GitHub REST API client.
//
// It covers exactly the three endpoints ghsync syncs from:
//
//	GET /users/{login}
//	GET /users/{login}/repos?type=owner&sort=full_name
//	GET /users/{login}/followers
//
// List endpoints are paginated with per_page=100; the client walks pages
// until a short page. An optional bearer token is read from GITHUB_TOKEN -
// unauthenticated requests work but hit GitHub's anonymous rate limits
// quickly. Responses are normalized into the store package's row types.
package github
