package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/muurk/ghsync/internal/service"
	"github.com/muurk/ghsync/internal/store"
)

// TimeLayout renders sync timestamps the way clients see them.
const TimeLayout = "02/01/2006 15:04"

// Never is shown for a resource that has not been synced yet.
const Never = "never"

// NotRecognizedText is the body returned for an unknown command token.
const NotRecognizedText = "Command not recognized.\nUse /help to list the available commands.\n"

// FormatSyncTime renders a last-sync timestamp, or Never when absent.
func FormatSyncTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Never
	}
	return t.Format(TimeLayout)
}

// HelpText returns the static command table shown by /help and after login.
func HelpText() string {
	return "Available commands:\n" +
		"  /repos           -> sync repos from GitHub and list the stored ones\n" +
		"  /followers       -> sync followers from GitHub and list the stored ones\n" +
		"  /repos_local     -> list repos stored locally\n" +
		"  /followers_local -> list followers stored locally\n" +
		"  /help            -> show this help\n" +
		"  bye              -> close the connection\n"
}

// StatusBlock builds the post-login status summary: who the user is, what is
// stored for them, and the command table.
func StatusBlock(status *service.Status) string {
	login := status.Login
	if login == "" {
		login = "(unknown)"
	}
	name := status.Name
	if name == "" {
		name = "(no name)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User: %s - %s\n", login, name)
	fmt.Fprintf(&b, "Repos stored: %d (last sync: %s)\n", status.ReposCount, FormatSyncTime(status.LastSyncRepos))
	fmt.Fprintf(&b, "Followers stored: %d (last sync: %s)\n", status.FollowersCount, FormatSyncTime(status.LastSyncFollowers))
	b.WriteString("\n")
	b.WriteString(HelpText())
	return b.String()
}

// Repos builds the stored-repo listing for local (non-syncing) commands.
func Repos(login string, lastSync *time.Time, rows []store.RepoRow) string {
	return reposReport(login, lastSync, rows, -1)
}

// SyncedRepos builds the repo listing after a sync, including how many repos
// this operation processed.
func SyncedRepos(login string, lastSync *time.Time, rows []store.RepoRow, synced int) string {
	return reposReport(login, lastSync, rows, synced)
}

func reposReport(login string, lastSync *time.Time, rows []store.RepoRow, synced int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Repos stored for %s]\n", login)
	fmt.Fprintf(&b, "Last repo sync: %s\n", FormatSyncTime(lastSync))
	if synced >= 0 {
		fmt.Fprintf(&b, "Repos synced from GitHub in this operation: %d\n", synced)
	}
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString("No repositories stored.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-32s | %-12s | %s\n", "Name", "Language", "Stars")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, r := range rows {
		lang := r.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(&b, "%-32s | %-12s | %d\n", r.Name, lang, r.Stars)
	}
	return b.String()
}

// Followers builds the stored-follower listing for local commands.
func Followers(login string, lastSync *time.Time, rows []store.FollowerRow) string {
	return followersReport(login, lastSync, rows, -1)
}

// SyncedFollowers builds the follower listing after a sync, including how
// many relations this operation processed.
func SyncedFollowers(login string, lastSync *time.Time, rows []store.FollowerRow, synced int) string {
	return followersReport(login, lastSync, rows, synced)
}

func followersReport(login string, lastSync *time.Time, rows []store.FollowerRow, synced int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Followers stored for %s]\n", login)
	fmt.Fprintf(&b, "Last follower sync: %s\n", FormatSyncTime(lastSync))
	if synced >= 0 {
		fmt.Fprintf(&b, "Followers synced from GitHub in this operation: %d\n", synced)
	}
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString("No followers stored.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-30s | %s\n", "Login", "URL")
	b.WriteString(strings.Repeat("-", 72) + "\n")
	for _, f := range rows {
		url := f.URL
		if url == "" {
			url = "-"
		}
		fmt.Fprintf(&b, "%-30s | %s\n", f.Login, url)
	}
	return b.String()
}
