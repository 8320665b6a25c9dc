package ps

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"

	"github.com/nickyhof/MyDB/core"
)

// FileExtension is appended to a database name to form its file name.
const FileExtension = ".mydb"

// Store reads and writes whole database files by database name.
type Store interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, identity core.Identity) (Transaction, error)
}

// FileStore keeps one file per database on a billy filesystem.
type FileStore struct {
	fs billy.Filesystem
}

// NewFileStore stores database files under baseDir, creating it if
// needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileIO, err)
	}
	return NewBillyStore(osfs.New(baseDir)), nil
}

func NewMemoryStore() *FileStore {
	return NewBillyStore(memfs.New())
}

func NewBillyStore(fs billy.Filesystem) *FileStore {
	return &FileStore{fs: fs}
}

func (s *FileStore) ReadFile(name string) ([]byte, error) {
	path := fileName(name)

	f, err := s.fs.Open(path)
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

// WriteFile replaces the database file. The data is written to a
// temporary file first and renamed over the target, so a failed write
// leaves the previous file intact.
func (s *FileStore) WriteFile(name string, data []byte, identity core.Identity) (Transaction, error) {
	path := fileName(name)
	tmp := path + ".tmp"

	if err := util.WriteFile(s.fs, tmp, data, 0644); err != nil {
		s.fs.Remove(tmp)
		return Transaction{}, fmt.Errorf("%w: write %s: %w", ErrFileIO, tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		s.fs.Remove(tmp)
		return Transaction{}, fmt.Errorf("%w: rename %s: %w", ErrFileIO, path, err)
	}

	return Transaction{When: time.Now(), Author: identity.String()}, nil
}

func fileName(name string) string {
	return name + FileExtension
}
