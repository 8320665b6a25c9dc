package ps

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"

	"github.com/nickyhof/MyDB/core"
)

// GitStore keeps database files in a git work tree and records every
// write as a commit authored by the committing identity.
type GitStore struct {
	repo *git.Repository
}

func NewMemoryGitStore() (*GitStore, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return nil, err
	}

	return &GitStore{repo: repo}, nil
}

// NewGitStore opens the repository at baseDir, initializing it if
// there is none yet.
func NewGitStore(baseDir string) (*GitStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileIO, err)
	}

	wt := osfs.New(baseDir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return nil, err
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository
	if _, statErr := os.Stat(fs.Root()); statErr != nil {
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return nil, err
	}

	return &GitStore{repo: repo}, nil
}

func (s *GitStore) ReadFile(name string) ([]byte, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileIO, err)
	}

	path := fileName(name)
	f, err := wt.Filesystem.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: open %s: %w", ErrFileIO, path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrFileIO, path, err)
	}
	return data, nil
}

// WriteFile replaces the database file and commits it. Writing content
// identical to the last commit creates no new commit and returns the
// latest transaction.
func (s *GitStore) WriteFile(name string, data []byte, identity core.Identity) (Transaction, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrFileIO, err)
	}

	path := fileName(name)
	if err := util.WriteFile(wt.Filesystem, path, data, 0644); err != nil {
		return Transaction{}, fmt.Errorf("%w: write %s: %w", ErrFileIO, path, err)
	}

	if _, err := wt.Add(path); err != nil {
		return Transaction{}, fmt.Errorf("%w: stage %s: %w", ErrFileIO, path, err)
	}

	status, err := wt.Status()
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrFileIO, err)
	}
	// Only this database's file counts; other files in the worktree may be
	// untracked or dirty.
	if fileStatus, ok := status[path]; !ok || (fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified) {
		return s.LatestTransaction(), nil
	}

	hash, err := wt.Commit(fmt.Sprintf("Commit database %s", name), &git.CommitOptions{
		Author: &object.Signature{
			Name:  identity.Name,
			Email: identity.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: commit %s: %w", ErrFileIO, path, err)
	}

	commit, err := s.repo.CommitObject(hash)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrFileIO, err)
	}
	return transactionFromCommit(commit), nil
}

func (s *GitStore) LatestTransaction() Transaction {
	headRef, err := s.repo.Head()
	if err != nil || headRef == nil {
		// No commits yet
		return Transaction{}
	}

	commit, err := s.repo.CommitObject(headRef.Hash())
	if err != nil {
		return Transaction{}
	}
	return transactionFromCommit(commit)
}

// History lists the commits that touched the named database file,
// newest first.
func (s *GitStore) History(name string) ([]Transaction, error) {
	if _, err := s.repo.Head(); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrFileIO, err)
	}

	path := fileName(name)
	cIter, err := s.repo.Log(&git.LogOptions{FileName: &path})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileIO, err)
	}
	defer cIter.Close()

	var transactions []Transaction
	err = cIter.ForEach(func(c *object.Commit) error {
		transactions = append(transactions, transactionFromCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileIO, err)
	}
	return transactions, nil
}
