package errors

import "errors"

var (
	ErrAgentNotFound     = errors.New("agent not found")
	ErrDuplicateEmail    = errors.New("agent with this email already exists")
	ErrInvalidAgentInput = errors.New("invalid agent input")
)
