package devices

import (
	"errors"
	"io"
	"io/fs"
	"os"

	tarm "github.com/tarm/serial"
	"go.bug.st/serial"
)

var (
	ErrInvalidConfig = errors.New("invalid scale configuration")
	ErrReadTimeout   = errors.New("read timeout")
)

// Classify maps a transport or protocol error to the category reported to the
// user. Checks run from most to least specific; nil yields CategoryUnknown.
func Classify(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	if category, ok := classifyPortError(err); ok {
		return category
	}

	switch {
	case errors.Is(err, ErrReadTimeout), errors.Is(err, os.ErrDeadlineExceeded), isTimeout(err):
		return CategoryTimeout
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, tarm.ErrBadSize),
		errors.Is(err, tarm.ErrBadParity),
		errors.Is(err, tarm.ErrBadStopBits):
		return CategoryInvalidConfiguration
	}

	if category, ok := classifyErrno(err); ok {
		return category
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return CategoryPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		return CategoryInvalidConfiguration
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.ErrClosedPipe):
		return CategoryIOError
	}

	var pathErr *fs.PathError
	var syscallErr *os.SyscallError
	if errors.As(err, &pathErr) || errors.As(err, &syscallErr) {
		return CategoryIOError
	}

	return CategoryUnknown
}

// go.bug.st/serial returns *PortError from Open but PortError values from some
// other calls, so both shapes are checked.
func classifyPortError(err error) (ErrorCategory, bool) {
	var code serial.PortErrorCode

	var ptr *serial.PortError
	var val serial.PortError
	switch {
	case errors.As(err, &ptr) && ptr != nil:
		code = ptr.Code()
	case errors.As(err, &val):
		code = val.Code()
	default:
		return CategoryUnknown, false
	}

	switch code {
	case serial.PermissionDenied:
		return CategoryPermissionDenied, true
	case serial.PortBusy:
		return CategoryPortAlreadyInUse, true
	case serial.PortNotFound, serial.InvalidSerialPort, serial.InvalidSpeed, serial.InvalidDataBits,
		serial.InvalidParity, serial.InvalidStopBits, serial.InvalidTimeoutValue:
		return CategoryInvalidConfiguration, true
	case serial.PortClosed:
		return CategoryIOError, true
	default:
		return CategoryUnknown, false
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
