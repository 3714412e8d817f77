package devices

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tarm "github.com/tarm/serial"
	"go.bug.st/serial"
)

// Port is the part of a serial handle the engine needs. A Read that returns
// (0, nil) means the read timeout elapsed without data.
type Port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
	Drain() error
}

// PortSettings is everything a driver must apply before the port is usable.
type PortSettings struct {
	Name        string
	BaudRate    int
	DataBits    int
	Parity      Parity
	StopBits    StopBits
	ReadTimeout time.Duration
}

func (s PortSettings) String() string {
	parity := "?"
	if s.Parity.Valid() {
		parity = s.Parity.String()[:1]
	}

	stop := "?"
	switch s.StopBits {
	case StopBitsOne:
		stop = "1"
	case StopBitsOnePointFive:
		stop = "1.5"
	case StopBitsTwo:
		stop = "2"
	}

	return fmt.Sprintf("%s %d %d%s%s", s.Name, s.BaudRate, s.DataBits, parity, stop)
}

type Opener func(settings PortSettings) (Port, error)

// OpenerFor picks the driver named in the scale config.
func OpenerFor(driver string) (Opener, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverBugst:
		return OpenBugst, nil
	case DriverTarm:
		return OpenTarm, nil
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrInvalidConfig, driver)
	}
}

// OpenBugst opens the port through go.bug.st/serial.
func OpenBugst(settings PortSettings) (Port, error) {
	mode := &serial.Mode{
		BaudRate: settings.BaudRate,
		DataBits: settings.DataBits,
		Parity:   bugstParity(settings.Parity),
		StopBits: bugstStopBits(settings.StopBits),
	}

	port, err := serial.Open(settings.Name, mode)
	if err != nil {
		return nil, err
	}

	if err = port.SetReadTimeout(settings.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	return port, nil
}

func bugstParity(p Parity) serial.Parity {
	switch p {
	case ParityOdd:
		return serial.OddParity
	case ParityEven:
		return serial.EvenParity
	case ParityMark:
		return serial.MarkParity
	case ParitySpace:
		return serial.SpaceParity
	default:
		return serial.NoParity
	}
}

func bugstStopBits(s StopBits) serial.StopBits {
	switch s {
	case StopBitsOnePointFive:
		return serial.OnePointFiveStopBits
	case StopBitsTwo:
		return serial.TwoStopBits
	default:
		return serial.OneStopBit
	}
}

// OpenTarm opens the port through github.com/tarm/serial. tarm has no
// separate timeout setter, so the read timeout is part of the open config.
func OpenTarm(settings PortSettings) (Port, error) {
	port, err := tarm.OpenPort(&tarm.Config{
		Name:        settings.Name,
		Baud:        settings.BaudRate,
		ReadTimeout: settings.ReadTimeout,
		Size:        byte(settings.DataBits),
		Parity:      tarmParity(settings.Parity),
		StopBits:    tarmStopBits(settings.StopBits),
	})
	if err != nil {
		return nil, err
	}

	return &tarmPort{port: port}, nil
}

func tarmParity(p Parity) tarm.Parity {
	switch p {
	case ParityOdd:
		return tarm.ParityOdd
	case ParityEven:
		return tarm.ParityEven
	case ParityMark:
		return tarm.ParityMark
	case ParitySpace:
		return tarm.ParitySpace
	default:
		return tarm.ParityNone
	}
}

func tarmStopBits(s StopBits) tarm.StopBits {
	switch s {
	case StopBitsOnePointFive:
		return tarm.Stop1Half
	case StopBitsTwo:
		return tarm.Stop2
	default:
		return tarm.Stop1
	}
}

type tarmPort struct {
	port *tarm.Port
}

// Read maps tarm's timeout signal on POSIX (0, io.EOF) to the (0, nil)
// contract go.bug.st uses.
func (p *tarmPort) Read(b []byte) (int, error) {
	n, err := p.port.Read(b)
	if n == 0 && errors.Is(err, io.EOF) {
		return 0, nil
	}
	return n, err
}

func (p *tarmPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *tarmPort) ResetInputBuffer() error {
	return p.port.Flush()
}

// Drain is a no-op: tarm writes go straight to the file descriptor.
func (p *tarmPort) Drain() error {
	return nil
}

func (p *tarmPort) Close() error {
	return p.port.Close()
}
