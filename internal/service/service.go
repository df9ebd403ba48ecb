package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muurk/ghsync/internal/store"
)

// Status is a read-only summary of what the store knows about a login.
// Sessions cache the latest Status and replace it wholesale after a sync.
type Status struct {
	Exists            bool
	Login             string
	Name              string
	LastSyncRepos     *time.Time
	LastSyncFollowers *time.Time
	ReposCount        int
	FollowersCount    int
}

// Fetcher is the slice of the GitHub client the service depends on.
type Fetcher interface {
	User(ctx context.Context, login string) (*store.User, error)
	Repos(ctx context.Context, login string) ([]store.Repo, error)
	Followers(ctx context.Context, login string) ([]store.Follower, error)
}

// Service orchestrates between the GitHub API and the local store. It is
// stateless; the per-session store handle is passed into every call so the
// session keeps ownership (and the reconnect policy) of its handle.
type Service struct {
	github Fetcher
}

// New creates a Service backed by the given GitHub fetcher.
func New(github Fetcher) *Service {
	return &Service{github: github}
}

// UserStatus summarizes the stored state of a login. A login that is not in
// the store yields a Status with Exists=false, not an error.
func (s *Service) UserStatus(st *store.Store, login string) (*Status, error) {
	u, err := st.UserByLogin(login)
	if errors.Is(err, store.ErrUserNotFound) {
		return &Status{}, nil
	}
	if err != nil {
		return nil, err
	}

	reposCount, err := st.CountRepos(u.ID)
	if err != nil {
		return nil, err
	}
	followersCount, err := st.CountFollowers(u.ID)
	if err != nil {
		return nil, err
	}

	return &Status{
		Exists:            true,
		Login:             u.Login,
		Name:              u.Name,
		LastSyncRepos:     u.LastSyncRepos,
		LastSyncFollowers: u.LastSyncFollowers,
		ReposCount:        reposCount,
		FollowersCount:    followersCount,
	}, nil
}

// SetCurrentUser validates a login against GitHub, stores (or refreshes) the
// user row and marks it tracked. This is the only network call in the login
// path; its error text reaches the client behind the ERROR_LOGIN tag.
func (s *Service) SetCurrentUser(ctx context.Context, st *store.Store, login string) error {
	u, err := s.github.User(ctx, login)
	if err != nil {
		return fmt.Errorf("could not validate user %q on GitHub: %w", login, err)
	}
	if err := st.UpsertUser(u); err != nil {
		return err
	}
	return st.MarkTracked(u.ID)
}

// SyncRepos fetches the login's repositories from GitHub, upserts them and
// records the sync time. Returns the number of repos processed.
func (s *Service) SyncRepos(ctx context.Context, st *store.Store, login string) (int, error) {
	ownerID, err := st.UserIDByLogin(login)
	if err != nil {
		return 0, err
	}

	repos, err := s.github.Repos(ctx, login)
	if err != nil {
		return 0, fmt.Errorf("could not fetch repos for %q: %w", login, err)
	}

	n, err := st.UpsertRepos(ownerID, repos)
	if err != nil {
		return 0, err
	}
	if err := st.MarkRepoSync(ownerID); err != nil {
		return 0, err
	}
	return n, nil
}

// SyncFollowers fetches the login's followers from GitHub, upserts them and
// records the sync time. Returns the number of relations processed.
func (s *Service) SyncFollowers(ctx context.Context, st *store.Store, login string) (int, error) {
	userID, err := st.UserIDByLogin(login)
	if err != nil {
		return 0, err
	}

	followers, err := s.github.Followers(ctx, login)
	if err != nil {
		return 0, fmt.Errorf("could not fetch followers for %q: %w", login, err)
	}

	n, err := st.UpsertFollowers(userID, followers)
	if err != nil {
		return 0, err
	}
	if err := st.MarkFollowerSync(userID); err != nil {
		return 0, err
	}
	return n, nil
}

// ShowRepos reads the stored repo listing. Pure store read, no network.
func (s *Service) ShowRepos(st *store.Store, login string) ([]store.RepoRow, error) {
	return st.ReposByOwner(login)
}

// ShowFollowers reads the stored follower listing. Pure store read, no network.
func (s *Service) ShowFollowers(st *store.Store, login string) ([]store.FollowerRow, error) {
	return st.FollowersByUser(login)
}
