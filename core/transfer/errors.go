package transfer

import "errors"

var (
	ErrMalformedRecord = errors.New("transfer: malformed record")
	ErrMissingName     = errors.New("transfer: record has no file name")
	ErrInvalidName     = errors.New("transfer: file name is not a plain file name")
	ErrBadContent      = errors.New("transfer: chunk content is not valid base64")
	ErrNoChunks        = errors.New("transfer: final marker without chunks")
	ErrLineTooLong     = errors.New("transfer: line exceeds limit")
)
