package storage

import "errors"

var (
	ErrScratchInit   = errors.New("scratch area initialization failed")
	ErrFileOperation = errors.New("file operation failed")
)
