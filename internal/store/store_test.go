package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ghsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testUser(id int64, login string) *User {
	return &User{
		ID:        id,
		Login:     login,
		Name:      "Test User",
		HTMLURL:   "https://github.com/" + login,
		Type:      "User",
		CreatedAt: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC),
	}
}

func TestUserUpsertAndLookup(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.UpsertUser(testUser(1, "alice")))

	u, err := s.UserByLogin("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "Test User", u.Name)
	assert.Nil(t, u.LastSyncRepos)
	assert.Nil(t, u.LastSyncFollowers)
	assert.False(t, u.Tracked)

	// Upsert with the same id updates in place.
	updated := testUser(1, "alice")
	updated.Name = "Alice Renamed"
	require.NoError(t, s.UpsertUser(updated))

	u, err = s.UserByLogin("alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", u.Name)

	_, err = s.UserByLogin("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.UserIDByLogin("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMarkTracked(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertUser(testUser(1, "alice")))
	require.NoError(t, s.MarkTracked(1))

	u, err := s.UserByLogin("alice")
	require.NoError(t, err)
	assert.True(t, u.Tracked)
}

func TestRepoSyncRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertUser(testUser(1, "alice")))

	repos := []Repo{
		{ID: 10, Name: "zeta", FullName: "alice/zeta", StarsCount: 5, Language: "Go"},
		{ID: 11, Name: "alpha", FullName: "alice/alpha", StarsCount: 5, Language: "Python"},
		{ID: 12, Name: "tool", FullName: "alice/tool", StarsCount: 100},
	}
	n, err := s.UpsertRepos(1, repos)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, s.MarkRepoSync(1))

	// Ordered by stars desc, then name asc.
	rows, err := s.ReposByOwner("alice")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "tool", rows[0].Name)
	assert.Equal(t, "alpha", rows[1].Name)
	assert.Equal(t, "zeta", rows[2].Name)

	count, err := s.CountRepos(1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	u, err := s.UserByLogin("alice")
	require.NoError(t, err)
	require.NotNil(t, u.LastSyncRepos)
	assert.WithinDuration(t, time.Now(), *u.LastSyncRepos, 5*time.Second)

	// Re-syncing the same repos must not duplicate rows.
	_, err = s.UpsertRepos(1, repos)
	require.NoError(t, err)
	count, err = s.CountRepos(1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFollowerSyncRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertUser(testUser(1, "alice")))

	followers := []Follower{
		{ID: 20, Login: "zoe", HTMLURL: "https://github.com/zoe"},
		{ID: 21, Login: "bob", HTMLURL: "https://github.com/bob"},
	}
	n, err := s.UpsertFollowers(1, followers)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, s.MarkFollowerSync(1))

	// Ordered by follower login asc.
	rows, err := s.FollowersByUser("alice")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bob", rows[0].Login)
	assert.Equal(t, "zoe", rows[1].Login)

	count, err := s.CountFollowers(1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Follower users get minimal rows so the relation's foreign key holds.
	bob, err := s.UserByLogin("bob")
	require.NoError(t, err)
	assert.Equal(t, int64(21), bob.ID)

	// Re-sync is idempotent.
	_, err = s.UpsertFollowers(1, followers)
	require.NoError(t, err)
	count, err = s.CountFollowers(1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAliveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghsync.db")
	s, err := Open(path)
	require.NoError(t, err)
	assert.True(t, s.Alive())

	require.NoError(t, s.Close())
	assert.False(t, s.Alive())

	// Reopening against the same file sees the previous schema and data.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	assert.True(t, s2.Alive())
}
