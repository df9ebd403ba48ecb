package report

import (
	"strings"
	"testing"
	"time"

	"github.com/muurk/ghsync/internal/service"
	"github.com/muurk/ghsync/internal/store"
)

func TestFormatSyncTime(t *testing.T) {
	if got := FormatSyncTime(nil); got != "never" {
		t.Errorf("FormatSyncTime(nil) = %q, want never", got)
	}

	ts := time.Date(2025, 11, 16, 12, 48, 30, 0, time.Local)
	if got := FormatSyncTime(&ts); got != "16/11/2025 12:48" {
		t.Errorf("FormatSyncTime() = %q", got)
	}
}

func TestStatusBlockNewUser(t *testing.T) {
	block := StatusBlock(&service.Status{
		Exists: true,
		Login:  "alice",
		Name:   "Alice",
	})

	for _, want := range []string{
		"User: alice - Alice",
		"Repos stored: 0 (last sync: never)",
		"Followers stored: 0 (last sync: never)",
		"/repos_local",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("StatusBlock missing %q in:\n%s", want, block)
		}
	}
}

func TestStatusBlockMissingName(t *testing.T) {
	block := StatusBlock(&service.Status{Exists: true, Login: "alice"})
	if !strings.Contains(block, "alice - (no name)") {
		t.Errorf("StatusBlock should show a placeholder name:\n%s", block)
	}
}

func TestReposEmpty(t *testing.T) {
	out := Repos("alice", nil, nil)
	if !strings.Contains(out, "[Repos stored for alice]") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Last repo sync: never") {
		t.Errorf("missing never timestamp:\n%s", out)
	}
	if !strings.Contains(out, "No repositories stored.") {
		t.Errorf("missing empty marker:\n%s", out)
	}
	if strings.Contains(out, "in this operation") {
		t.Errorf("local listing must not show a synced count:\n%s", out)
	}
}

func TestSyncedReposTable(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 5, 0, 0, time.Local)
	rows := []store.RepoRow{
		{Name: "widgets", Language: "Go", Stars: 42},
		{Name: "scratch", Stars: 0},
	}
	out := SyncedRepos("alice", &ts, rows, 2)

	for _, want := range []string{
		"Repos synced from GitHub in this operation: 2",
		"01/03/2025 09:05",
		"widgets",
		"Go",
		"42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SyncedRepos missing %q in:\n%s", want, out)
		}
	}

	// Missing language renders as a dash.
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "scratch") && !strings.Contains(line, "| -") {
			t.Errorf("missing language should render as dash: %q", line)
		}
	}
}

func TestSyncedFollowersTable(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 5, 0, 0, time.Local)
	rows := []store.FollowerRow{
		{Login: "bob", URL: "https://github.com/bob"},
	}
	out := SyncedFollowers("alice", &ts, rows, 1)

	for _, want := range []string{
		"[Followers stored for alice]",
		"Followers synced from GitHub in this operation: 1",
		"bob",
		"https://github.com/bob",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SyncedFollowers missing %q in:\n%s", want, out)
		}
	}
}

func TestHelpTextListsAllCommands(t *testing.T) {
	help := HelpText()
	for _, cmd := range []string{"/repos", "/followers", "/repos_local", "/followers_local", "/help", "bye"} {
		if !strings.Contains(help, cmd) {
			t.Errorf("HelpText missing %q", cmd)
		}
	}
}
