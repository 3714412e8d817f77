//go:build !unix && !windows

package devices

func classifyErrno(err error) (ErrorCategory, bool) {
	return CategoryUnknown, false
}
