package domain

import "errors"

var (
	ErrMissingPart     = errors.New("both plan and elevation images are required")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrFileTooLarge    = errors.New("uploaded file is too large")
	ErrFileNotFound    = errors.New("file not found")
	ErrNotEnoughSpace  = errors.New("not enough free space")
)
