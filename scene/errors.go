package scene

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError reports a missing node or an unmet structural precondition.
type NotFoundError struct {
	Name   string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%q not found: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("%q not found", e.Name)
}

func NotFound(name, format string, a ...interface{}) error {
	return &NotFoundError{Name: name, Reason: fmt.Sprintf(format, a...)}
}

// NameConflictError is returned when a rename would duplicate the name of
// another live node or datablock.
type NameConflictError struct {
	Name   string
	Holder string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("name %q is already used by %s", e.Name, e.Holder)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsNameConflict(err error) bool {
	var nc *NameConflictError
	return errors.As(err, &nc)
}
