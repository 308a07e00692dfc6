package geom

import (
	"errors"
	"fmt"
)

// ErrCorruptMarkup is matched by every *ParseError via errors.Is.
var ErrCorruptMarkup = errors.New("corrupt or invalid markup")

var errNoRoot = errors.New("no root element")

// ParseError reports markup that is not well-formed XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("kml: %v: %v", ErrCorruptMarkup, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrCorruptMarkup }
