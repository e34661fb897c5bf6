package decode

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoHeader          = errors.New("file has no header row")
	ErrNoData            = errors.New("file is empty or has no valid data")
	ErrMalformed         = errors.New("malformed file")
)
