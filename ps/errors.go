package ps

import "errors"

var (
	ErrFileNotFound = errors.New("database file not found")
	ErrFileIO       = errors.New("database file I/O error")
	ErrDecode       = errors.New("cannot decode database file")
)
