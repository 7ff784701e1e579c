package media

import "errors"

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("only photos and videos can be attached")
	ErrEmptyFile       = errors.New("file is empty")
)
