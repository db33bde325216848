package comterm

import (
	"github.com/pkg/errors"
)

var (
	// ErrInputClosed is returned by an InputSource that will not
	// produce any more events.
	ErrInputClosed = errors.New("input source closed")
	// ErrInterrupted is returned by an InputSource whose blocking read
	// was cut short by Interrupt.
	ErrInterrupted = errors.New("input read interrupted")
)

type errWithExitStatus struct {
	err    error
	status int
}

func setExitStatus(err error, status int) error {
	return &errWithExitStatus{err: err, status: status}
}

func (e errWithExitStatus) Error() string {
	return e.err.Error()
}

func (e errWithExitStatus) Cause() error {
	return e.err
}

func (e errWithExitStatus) Unwrap() error {
	return e.err
}

func (e errWithExitStatus) ExitStatus() int {
	return e.status
}

type errIgnorable struct {
	err error
}

func makeIgnorable(err error) error {
	return &errIgnorable{err: err}
}

func (e errIgnorable) Error() string {
	return e.err.Error()
}

func (e errIgnorable) Cause() error {
	return e.err
}

func (e errIgnorable) Unwrap() error {
	return e.err
}

func (e errIgnorable) Ignorable() bool {
	return true
}
