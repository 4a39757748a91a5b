package service

import "errors"

var (
	ErrTextTooLarge = errors.New("text exceeds the 128 KiB translation limit")
)
