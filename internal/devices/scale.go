package devices

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultReadTimeout = 10 * time.Second
	DefaultBatchLines  = 100

	pollTerminator = "\n"
)

type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// Engine runs one request/response cycle against a scale per Execute call.
// It keeps no state between calls; every field is optional.
type Engine struct {
	// Open overrides the driver selected by ScaleConfig.Driver.
	Open   Opener
	Logger Logger
	Sleep  func(time.Duration)
	Now    func() time.Time
}

func NewEngine(logger Logger) *Engine {
	return &Engine{Logger: logger}
}

// Execute opens the configured port, primes the device when it needs an
// explicit poll, and reads one line. It always returns an Outcome and always
// closes a port it opened.
func (e *Engine) Execute(cfg ScaleConfig) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			detail := fmt.Sprint(r)
			e.errorf("Unexpected failure during scale read: %s", detail)
			outcome = Fail(CategoryUnknown, detail)
		}
	}()

	e.infof("Preparing scale read: model=%q description=%q", cfg.Model, cfg.Description)

	settings, err := settingsFor(cfg)
	if err != nil {
		return e.fail("Invalid port configuration", err)
	}

	open := e.Open
	if open == nil {
		if open, err = OpenerFor(cfg.Driver); err != nil {
			return e.fail("Invalid port configuration", err)
		}
	}

	e.infof("Opening port %s (read timeout %s)", settings, settings.ReadTimeout)
	port, err := open(settings)
	if err != nil {
		return e.fail("Could not open port "+settings.Name, err)
	}
	defer func() {
		if errClose := port.Close(); errClose != nil {
			e.errorf("Closing port %s: %v", settings.Name, errClose)
		}
	}()
	e.infof("Port %s open", settings.Name)

	if err = port.ResetInputBuffer(); err != nil {
		return e.fail("Discarding stale input", err)
	}

	if cfg.RequiresExplicitPoll {
		if err = e.prime(port, cfg); err != nil {
			return e.fail("Sending poll command", err)
		}
	}

	e.infof("Reading weight from scale")
	reader := newLineReader(port, settings.ReadTimeout, e.Now)

	line, err := reader.ReadLine()
	if err != nil {
		return e.fail("Reading from scale", err)
	}
	e.infof("Received: %q", line)

	reading := Reading{Line: line}
	if weight, errParse := parseWeight(line); errParse == nil {
		reading.Weight = weight
		reading.HasWeight = true
	} else {
		e.infof("No weight value in %q: %v", line, errParse)
	}

	if limit := batchLimit(cfg); limit > 0 {
		reading.Batch = e.readBatch(reader, limit)
		e.infof("Batch received %d line(s): %q", len(reading.Batch), reading.Batch)
	}

	e.infof("Scale read succeeded")
	return Success(reading)
}

func (e *Engine) prime(port Port, cfg ScaleConfig) error {
	e.infof("Sending poll command %q", cfg.PollCommand)
	if _, err := port.Write([]byte(cfg.PollCommand + pollTerminator)); err != nil {
		return err
	}

	if err := port.Drain(); err != nil {
		e.errorf("Draining output: %v", err)
	}

	wait := time.Duration(cfg.PostCommandWaitMs) * time.Millisecond
	if wait > 0 {
		e.infof("Waiting %s for the scale to answer", wait)
		e.sleep(wait)
	}

	return nil
}

// readBatch never fails: running out of lines before limit just ends the batch.
func (e *Engine) readBatch(reader *lineReader, limit int) []string {
	lines := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		line, err := reader.ReadLine()
		if err != nil {
			e.infof("Batch read stopped after %d attempt(s): %v", i, err)
			break
		}
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

func (e *Engine) fail(stage string, err error) Outcome {
	category := Classify(err)
	e.errorf("%s: %v [%s]", stage, err, category)
	return Fail(category, err.Error())
}

func (e *Engine) sleep(d time.Duration) {
	if e.Sleep != nil {
		e.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (e *Engine) infof(format string, args ...any) {
	e.log(false, format, args...)
}

func (e *Engine) errorf(format string, args ...any) {
	e.log(true, format, args...)
}

// log swallows panics from the sink so a broken log never aborts a read.
func (e *Engine) log(isError bool, format string, args ...any) {
	if e.Logger == nil {
		return
	}
	defer func() {
		_ = recover()
	}()

	if isError {
		e.Logger.Errorf(format, args...)
	} else {
		e.Logger.Infof(format, args...)
	}
}

func settingsFor(cfg ScaleConfig) (PortSettings, error) {
	if err := cfg.Validate(); err != nil {
		return PortSettings{}, err
	}

	timeout := time.Duration(cfg.ReadTimeoutMs) * time.Millisecond
	if cfg.ReadTimeoutMs <= 0 {
		timeout = DefaultReadTimeout
	}

	return PortSettings{
		Name:        strings.TrimSpace(cfg.PortName),
		BaudRate:    cfg.BaudRate,
		DataBits:    cfg.DataBits,
		Parity:      cfg.Parity,
		StopBits:    cfg.StopBits,
		ReadTimeout: timeout,
	}, nil
}

func batchLimit(cfg ScaleConfig) int {
	switch {
	case cfg.BatchLines < 0:
		return 0
	case cfg.BatchLines == 0:
		return DefaultBatchLines
	default:
		return cfg.BatchLines
	}
}
