package services

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input validation failure.
var ErrValidation = errors.New("validation error")

var (
	ErrEmptyName   = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrEmptyData   = fmt.Errorf("%w: data must have at least one entry", ErrValidation)
	ErrEmptyID     = fmt.Errorf("%w: id must not be empty", ErrValidation)
	ErrNameTooLong = fmt.Errorf("%w: name is longer than %d characters", ErrValidation, MaxNameLength)
)

var (
	ErrIndexOutOfRange = errors.New("gallery index out of range")
	ErrNoSelection     = errors.New("no image selected")
)
