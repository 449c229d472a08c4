package domain

import "errors"

var (
	ErrAreaNotFound   = errors.New("area not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotConnected   = errors.New("not connected to town server")
)
