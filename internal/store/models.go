package store

import "time"

// User is a GitHub account row in the users table. Users appear either
// because a client logged in as them (tracked) or because they showed up in
// someone's follower list.
type User struct {
	ID                int64
	Login             string
	Name              string
	HTMLURL           string
	Type              string
	Company           string
	Location          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastSyncRepos     *time.Time
	LastSyncFollowers *time.Time
	Tracked           bool
}

// Repo is a normalized GitHub repository row.
type Repo struct {
	ID            int64
	Name          string
	FullName      string
	Private       bool
	HTMLURL       string
	Description   string
	Language      string
	ForksCount    int
	StarsCount    int
	WatchersCount int
	OpenIssues    int
	Fork          bool
	DefaultBranch string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PushedAt      time.Time
}

// Follower is the slice of a user record that follower sync needs.
type Follower struct {
	ID      int64
	Login   string
	HTMLURL string
}

// RepoRow is the compact listing shape used by reports.
type RepoRow struct {
	Name     string
	Language string
	Stars    int
}

// FollowerRow is the compact listing shape used by reports.
type FollowerRow struct {
	Login string
	URL   string
}
