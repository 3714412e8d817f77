package devices

import "fmt"

type ErrorCategory int

const (
	CategoryUnknown ErrorCategory = iota
	CategoryPermissionDenied
	CategoryIOError
	CategoryInvalidConfiguration
	CategoryPortAlreadyInUse
	CategoryTimeout
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryPermissionDenied:
		return "PermissionDenied"
	case CategoryIOError:
		return "IOError"
	case CategoryInvalidConfiguration:
		return "InvalidConfiguration"
	case CategoryPortAlreadyInUse:
		return "PortAlreadyInUse"
	case CategoryTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Message returns the user-facing text for the category. detail is only used
// by CategoryUnknown.
func (c ErrorCategory) Message(detail string) string {
	switch c {
	case CategoryPermissionDenied:
		return "Access denied to the port; verify permissions."
	case CategoryIOError:
		return "Communication error with the device; check cabling/connection."
	case CategoryInvalidConfiguration:
		return "Invalid port configuration; verify parameters."
	case CategoryPortAlreadyInUse:
		return "Port already in use by another process."
	case CategoryTimeout:
		return "Device did not respond in time; check the connection."
	default:
		return "Unknown error. Details: " + detail
	}
}

type Reading struct {
	// Line is the device response with only the line terminator removed.
	Line string

	Weight    float64
	HasWeight bool

	// Batch holds the non-empty lines read after Line. Diagnostic only.
	Batch []string
}

type Failure struct {
	Category ErrorCategory
	Message  string
	Detail   string
}

func (f Failure) Error() string {
	if f.Detail == "" {
		return f.Message
	}
	return fmt.Sprintf("%s (%s)", f.Message, f.Detail)
}

// Outcome is the result of one transaction: either a Reading or a Failure,
// never both.
type Outcome struct {
	reading *Reading
	failure *Failure
}

func Success(r Reading) Outcome {
	return Outcome{reading: &r}
}

func Fail(category ErrorCategory, detail string) Outcome {
	return Outcome{failure: &Failure{
		Category: category,
		Message:  category.Message(detail),
		Detail:   detail,
	}}
}

func (o Outcome) OK() bool {
	return o.reading != nil
}

func (o Outcome) Reading() (Reading, bool) {
	if o.reading == nil {
		return Reading{}, false
	}
	return *o.reading, true
}

func (o Outcome) Failure() (Failure, bool) {
	if o.failure == nil {
		return Failure{}, false
	}
	return *o.failure, true
}

func (o Outcome) String() string {
	if o.reading != nil {
		return fmt.Sprintf("Success(%q)", o.reading.Line)
	}
	if o.failure != nil {
		return fmt.Sprintf("Failure(%s, %q)", o.failure.Category, o.failure.Message)
	}
	return "Outcome(empty)"
}
