//go:build unix

package devices

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

func classifyErrno(err error) (ErrorCategory, bool) {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return CategoryUnknown, false
	}

	switch errno {
	case unix.EACCES, unix.EPERM:
		return CategoryPermissionDenied, true
	case unix.EBUSY:
		return CategoryPortAlreadyInUse, true
	case unix.ENOENT, unix.ENOTTY, unix.EINVAL:
		return CategoryInvalidConfiguration, true
	case unix.EIO, unix.ENXIO, unix.ENODEV, unix.EPIPE, unix.EBADF:
		return CategoryIOError, true
	case unix.ETIMEDOUT:
		return CategoryTimeout, true
	default:
		return CategoryIOError, true
	}
}
