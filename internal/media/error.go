package media

import "errors"

var (
	ErrFilenameRequired = errors.New("filename is required")
	ErrTokenNotFound    = errors.New("upload token not found or expired")
	ErrBlobUnavailable  = errors.New("uploaded blob is not reachable")
)
