package upload

import "errors"

var (
	ErrInvalidFileType = errors.New("only image files are allowed")
	ErrFileTooLarge    = errors.New("file exceeds the 5MB limit")
	ErrEmptyFile       = errors.New("file is empty")
)
