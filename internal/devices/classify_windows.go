//go:build windows

package devices

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

func classifyErrno(err error) (ErrorCategory, bool) {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return CategoryUnknown, false
	}

	switch errno {
	case syscall.Errno(windows.ERROR_ACCESS_DENIED):
		return CategoryPermissionDenied, true
	case syscall.Errno(windows.ERROR_SHARING_VIOLATION), syscall.Errno(windows.ERROR_BUSY):
		return CategoryPortAlreadyInUse, true
	case syscall.Errno(windows.ERROR_FILE_NOT_FOUND), syscall.Errno(windows.ERROR_PATH_NOT_FOUND),
		syscall.Errno(windows.ERROR_INVALID_NAME), syscall.Errno(windows.ERROR_INVALID_PARAMETER):
		return CategoryInvalidConfiguration, true
	case syscall.Errno(windows.ERROR_SEM_TIMEOUT):
		return CategoryTimeout, true
	default:
		return CategoryIOError, true
	}
}
