package op

import "errors"

var (
	ErrNoDatabaseSelected    = errors.New("no database selected")
	ErrDatabaseAlreadyExists = errors.New("database already exists")
	ErrTableNotFound         = errors.New("table not found")
	ErrUnknownColumn         = errors.New("unknown column")
)
