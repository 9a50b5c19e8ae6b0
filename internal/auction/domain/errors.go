package domain

import "errors"

var (
	ErrBadMessage    = errors.New("malformed action message")
	ErrUnknownAction = errors.New("unknown action type")
)
