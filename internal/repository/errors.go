package repository

import (
	"errors"
	"fmt"
)

// ErrDuplicateCode is matched by *DuplicateCodeError.
var ErrDuplicateCode = errors.New("code already taken")

// DuplicateCodeError reports which code of a new link collided with an existing one.
type DuplicateCodeError struct {
	Code   string
	Custom bool
}

func (e *DuplicateCodeError) Error() string {
	kind := "short"
	if e.Custom {
		kind = "custom"
	}
	return fmt.Sprintf("%s code %q already taken", kind, e.Code)
}

func (e *DuplicateCodeError) Is(target error) bool {
	return target == ErrDuplicateCode
}
