package store

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertUser inserts or updates a full user row. Sync timestamps and the
// tracked flag are left untouched on update.
func (s *Store) UpsertUser(u *User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, login, name, html_url, type, company, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			login = excluded.login,
			name = excluded.name,
			html_url = excluded.html_url,
			type = excluded.type,
			company = excluded.company,
			location = excluded.location,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		u.ID, u.Login, u.Name, u.HTMLURL, u.Type, u.Company, u.Location,
		nullTime(u.CreatedAt), nullTime(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert user %q: %w", u.Login, err)
	}
	return nil
}

// MarkTracked flags a user as one a client has logged in as.
func (s *Store) MarkTracked(userID int64) error {
	if _, err := s.db.Exec(`UPDATE users SET is_tracked = 1 WHERE id = ?`, userID); err != nil {
		return fmt.Errorf("failed to mark user %d tracked: %w", userID, err)
	}
	return nil
}

// UserByLogin returns the stored user with the given login, or
// ErrUserNotFound.
func (s *Store) UserByLogin(login string) (*User, error) {
	row := s.db.QueryRow(`
		SELECT id, login, name, html_url, type, company, location,
		       created_at, updated_at, last_sync_repos, last_sync_followers, is_tracked
		FROM users WHERE login = ?`, login)

	var u User
	var createdAt, updatedAt, syncRepos, syncFollowers sql.NullTime
	err := row.Scan(&u.ID, &u.Login, &u.Name, &u.HTMLURL, &u.Type, &u.Company, &u.Location,
		&createdAt, &updatedAt, &syncRepos, &syncFollowers, &u.Tracked)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %q: %w", login, err)
	}

	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	u.LastSyncRepos = timePtr(syncRepos)
	u.LastSyncFollowers = timePtr(syncFollowers)
	return &u, nil
}

// UserIDByLogin returns the GitHub id of a stored user, or ErrUserNotFound.
func (s *Store) UserIDByLogin(login string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM users WHERE login = ?`, login).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query user id for %q: %w", login, err)
	}
	return id, nil
}

// UpsertRepos inserts or updates a batch of repositories owned by ownerID.
// Returns the number of rows processed.
func (s *Store) UpsertRepos(ownerID int64, repos []Repo) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin repo upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO repos (id, owner_id, name, full_name, private, html_url, description,
			language, forks_count, stargazers_count, watchers_count, open_issues_count,
			is_fork, default_branch, created_at, updated_at, pushed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			name = excluded.name,
			full_name = excluded.full_name,
			private = excluded.private,
			html_url = excluded.html_url,
			description = excluded.description,
			language = excluded.language,
			forks_count = excluded.forks_count,
			stargazers_count = excluded.stargazers_count,
			watchers_count = excluded.watchers_count,
			open_issues_count = excluded.open_issues_count,
			is_fork = excluded.is_fork,
			default_branch = excluded.default_branch,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			pushed_at = excluded.pushed_at`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare repo upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range repos {
		_, err := stmt.Exec(r.ID, ownerID, r.Name, r.FullName, r.Private, r.HTMLURL, r.Description,
			r.Language, r.ForksCount, r.StarsCount, r.WatchersCount, r.OpenIssues,
			r.Fork, r.DefaultBranch, nullTime(r.CreatedAt), nullTime(r.UpdatedAt), nullTime(r.PushedAt))
		if err != nil {
			return 0, fmt.Errorf("failed to upsert repo %q: %w", r.FullName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit repo upsert: %w", err)
	}
	return len(repos), nil
}

// MarkRepoSync records the current time as the owner's last repo sync.
func (s *Store) MarkRepoSync(userID int64) error {
	if _, err := s.db.Exec(`UPDATE users SET last_sync_repos = ? WHERE id = ?`, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to mark repo sync for user %d: %w", userID, err)
	}
	return nil
}

// ReposByOwner returns the compact repo listing for a login, ordered by
// stars descending then name ascending.
func (s *Store) ReposByOwner(login string) ([]RepoRow, error) {
	rows, err := s.db.Query(`
		SELECT r.name, r.language, r.stargazers_count
		FROM repos r
		JOIN users u ON u.id = r.owner_id
		WHERE u.login = ?
		ORDER BY r.stargazers_count DESC, r.name ASC`, login)
	if err != nil {
		return nil, fmt.Errorf("failed to query repos for %q: %w", login, err)
	}
	defer rows.Close()

	var result []RepoRow
	for rows.Next() {
		var r RepoRow
		if err := rows.Scan(&r.Name, &r.Language, &r.Stars); err != nil {
			return nil, fmt.Errorf("failed to scan repo row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpsertFollowers records follower relations for followedID. Each follower
// gets a minimal user row so the foreign key holds. Returns the number of
// relations processed.
func (s *Store) UpsertFollowers(followedID int64, followers []Follower) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin follower upsert: %w", err)
	}
	defer tx.Rollback()

	userStmt, err := tx.Prepare(`
		INSERT INTO users (id, login, html_url)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			login = excluded.login,
			html_url = excluded.html_url`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare follower user upsert: %w", err)
	}
	defer userStmt.Close()

	relStmt, err := tx.Prepare(`
		INSERT INTO followers (followed_id, follower_id)
		VALUES (?, ?)
		ON CONFLICT(followed_id, follower_id) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare follower relation upsert: %w", err)
	}
	defer relStmt.Close()

	for _, f := range followers {
		if _, err := userStmt.Exec(f.ID, f.Login, f.HTMLURL); err != nil {
			return 0, fmt.Errorf("failed to upsert follower %q: %w", f.Login, err)
		}
		if _, err := relStmt.Exec(followedID, f.ID); err != nil {
			return 0, fmt.Errorf("failed to upsert follower relation %d<-%d: %w", followedID, f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit follower upsert: %w", err)
	}
	return len(followers), nil
}

// MarkFollowerSync records the current time as the user's last follower sync.
func (s *Store) MarkFollowerSync(userID int64) error {
	if _, err := s.db.Exec(`UPDATE users SET last_sync_followers = ? WHERE id = ?`, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to mark follower sync for user %d: %w", userID, err)
	}
	return nil
}

// FollowersByUser returns the compact follower listing for a login, ordered
// by follower login ascending.
func (s *Store) FollowersByUser(login string) ([]FollowerRow, error) {
	rows, err := s.db.Query(`
		SELECT u2.login, u2.html_url
		FROM followers f
		JOIN users u1 ON u1.id = f.followed_id
		JOIN users u2 ON u2.id = f.follower_id
		WHERE u1.login = ?
		ORDER BY u2.login ASC`, login)
	if err != nil {
		return nil, fmt.Errorf("failed to query followers for %q: %w", login, err)
	}
	defer rows.Close()

	var result []FollowerRow
	for rows.Next() {
		var f FollowerRow
		if err := rows.Scan(&f.Login, &f.URL); err != nil {
			return nil, fmt.Errorf("failed to scan follower row: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// CountRepos returns how many repos are stored for an owner id.
func (s *Store) CountRepos(ownerID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM repos WHERE owner_id = ?`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count repos for user %d: %w", ownerID, err)
	}
	return n, nil
}

// CountFollowers returns how many follower relations are stored for a user id.
func (s *Store) CountFollowers(followedID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM followers WHERE followed_id = ?`, followedID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count followers for user %d: %w", followedID, err)
	}
	return n, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
