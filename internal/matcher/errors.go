package matcher

import (
	"errors"
	"fmt"
)

var ErrRemoteMatch = errors.New("remote match failed")

// RemoteMatchError covers transport failures and responses that do not fit
// the expected schema. Either way the whole batch is unusable.
type RemoteMatchError struct {
	Op  string
	Err error
}

func (e *RemoteMatchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote match %s", e.Op)
	}
	return fmt.Sprintf("remote match %s: %v", e.Op, e.Err)
}

func (e *RemoteMatchError) Unwrap() error { return e.Err }

func (e *RemoteMatchError) Is(target error) bool { return target == ErrRemoteMatch }

func malformed(format string, args ...any) error {
	return &RemoteMatchError{Op: "decode", Err: fmt.Errorf(format, args...)}
}
