package devices

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

var parityNames = map[Parity]string{
	ParityNone:  "None",
	ParityOdd:   "Odd",
	ParityEven:  "Even",
	ParityMark:  "Mark",
	ParitySpace: "Space",
}

func (p Parity) String() string {
	if name, ok := parityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Parity(%d)", int(p))
}

func (p Parity) Valid() bool {
	_, ok := parityNames[p]
	return ok
}

func (p Parity) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid parity %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Parity) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	for candidate, name := range parityNames {
		if strings.EqualFold(name, value) {
			*p = candidate
			return nil
		}
	}

	if n, err := strconv.Atoi(value); err == nil && Parity(n).Valid() {
		*p = Parity(n)
		return nil
	}

	return fmt.Errorf("unknown parity %q", value)
}

func (p *Parity) UnmarshalJSON(data []byte) error {
	return unmarshalEnumJSON(data, p.UnmarshalText)
}

// StopBits values follow the numbering used by .NET's System.IO.Ports, which
// existing scale configs were written against: 1=One, 2=Two, 3=OnePointFive.
type StopBits int

const (
	StopBitsOne          StopBits = 1
	StopBitsTwo          StopBits = 2
	StopBitsOnePointFive StopBits = 3
)

var stopBitsNames = map[StopBits]string{
	StopBitsOne:          "One",
	StopBitsTwo:          "Two",
	StopBitsOnePointFive: "OnePointFive",
}

func (s StopBits) String() string {
	if name, ok := stopBitsNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StopBits(%d)", int(s))
}

func (s StopBits) Valid() bool {
	_, ok := stopBitsNames[s]
	return ok
}

func (s StopBits) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stop bits %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *StopBits) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	for candidate, name := range stopBitsNames {
		if strings.EqualFold(name, value) {
			*s = candidate
			return nil
		}
	}

	if n, err := strconv.Atoi(value); err == nil && StopBits(n).Valid() {
		*s = StopBits(n)
		return nil
	}

	return fmt.Errorf("unknown stop bits %q", value)
}

func (s *StopBits) UnmarshalJSON(data []byte) error {
	return unmarshalEnumJSON(data, s.UnmarshalText)
}

// unmarshalEnumJSON accepts both `"Even"` and `2`.
func unmarshalEnumJSON(data []byte, fromText func([]byte) error) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return fromText([]byte(name))
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected name or number, got %s", string(data))
	}

	return fromText([]byte(strconv.Itoa(n)))
}

const (
	DriverBugst = "bugst"
	DriverTarm  = "tarm"
)

type ScaleConfig struct {
	Model                string   `json:"model" toml:"model"`
	Description          string   `json:"description" toml:"description"`
	DataBits             int      `json:"dataBits" toml:"dataBits"`
	Parity               Parity   `json:"parity" toml:"parity"`
	StopBits             StopBits `json:"stopBits" toml:"stopBits"`
	PortName             string   `json:"portName" toml:"portName"`
	BaudRate             int      `json:"baudRate" toml:"baudRate"`
	RequiresExplicitPoll bool     `json:"requiresExplicitPoll" toml:"requiresExplicitPoll"`
	PollCommand          string   `json:"pollCommand" toml:"pollCommand"`
	PostCommandWaitMs    int      `json:"postCommandWaitMs" toml:"postCommandWaitMs"`

	ReadTimeoutMs int    `json:"readTimeoutMs,omitempty" toml:"readTimeoutMs,omitempty"`
	BatchLines    int    `json:"batchLines,omitempty" toml:"batchLines,omitempty"`
	Driver        string `json:"driver,omitempty" toml:"driver,omitempty"`
}

// Validate reports the first field that the serial transport could never
// accept. Combinations that only the driver can judge (e.g. 1.5 stop bits on
// Linux) are left to Open.
func (c ScaleConfig) Validate() error {
	if strings.TrimSpace(c.PortName) == "" {
		return fmt.Errorf("%w: portName is empty", ErrInvalidConfig)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: baudRate must be positive, got %d", ErrInvalidConfig, c.BaudRate)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("%w: dataBits must be 5..8, got %d", ErrInvalidConfig, c.DataBits)
	}
	if !c.Parity.Valid() {
		return fmt.Errorf("%w: unsupported parity %d", ErrInvalidConfig, int(c.Parity))
	}
	if !c.StopBits.Valid() {
		return fmt.Errorf("%w: unsupported stopBits %d", ErrInvalidConfig, int(c.StopBits))
	}
	if c.PostCommandWaitMs < 0 {
		return fmt.Errorf("%w: postCommandWaitMs must not be negative, got %d", ErrInvalidConfig, c.PostCommandWaitMs)
	}
	if c.ReadTimeoutMs < 0 {
		return fmt.Errorf("%w: readTimeoutMs must not be negative, got %d", ErrInvalidConfig, c.ReadTimeoutMs)
	}
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "", DriverBugst, DriverTarm:
	default:
		return fmt.Errorf("%w: unsupported driver %q", ErrInvalidConfig, c.Driver)
	}

	return nil
}
