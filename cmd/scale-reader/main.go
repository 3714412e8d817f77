package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.bug.st/serial/enumerator"

	"github.com/NowakAdmin/ScaleReader/internal/config"
	"github.com/NowakAdmin/ScaleReader/internal/devices"
	"github.com/NowakAdmin/ScaleReader/internal/logsink"
	"github.com/NowakAdmin/ScaleReader/internal/version"
)

const (
	exitOK = iota
	exitConfig
	exitReadFailed
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "configure":
			os.Exit(runConfigure(args[1:]))
		case "list":
			os.Exit(runList())
		case "version":
			fmt.Printf("ScaleReader %s\n", version.Version)
			return
		case "read":
			args = args[1:]
		}
	}

	os.Exit(runRead(args))
}

func runRead(args []string) int {
	start := time.Now()

	fs := flag.NewFlagSet("read", flag.ExitOnError)
	configPath := fs.String("config", config.Path(), "Scale config file (.json or .toml)")
	logDir := fs.String("logs", config.LogDir(), "Directory for session logs")
	_ = fs.Parse(args)

	sink, closeFn, err := logsink.Open(*logDir, start, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open log: %v\n", err)
		return exitConfig
	}
	defer closeFn()

	sink.Infof("Loading config %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		sink.Errorf("Could not load config: %v", err)
		return exitConfig
	}

	if raw, errMarshal := json.Marshal(cfg); errMarshal == nil {
		sink.Infof("Config loaded: %s", raw)
	}

	outcome := devices.NewEngine(sink).Execute(*cfg)

	if reading, ok := outcome.Reading(); ok {
		sink.Infof("Scale reading: %q", reading.Line)
		if reading.HasWeight {
			sink.Infof("Weight: %.3f kg", reading.Weight)
		}
		fmt.Println(reading.Line)
		return exitOK
	}

	failure, _ := outcome.Failure()
	sink.Errorf("Error: %s", failure.Message)
	return exitReadFailed
}

func runConfigure(args []string) int {
	path := config.Path()
	cfg, err := config.Load(path)
	if err != nil {
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	out := fs.String("config", path, "Where to write the config (.json or .toml)")
	model := fs.String("model", cfg.Model, "Scale model")
	description := fs.String("description", cfg.Description, "Free text description")
	port := fs.String("port", cfg.PortName, "Serial port, e.g. COM3 or /dev/ttyUSB0")
	baud := fs.Int("baud", cfg.BaudRate, "Baud rate")
	dataBits := fs.Int("data-bits", cfg.DataBits, "Data bits (5-8)")
	parity := fs.String("parity", cfg.Parity.String(), "None, Odd, Even, Mark or Space")
	stopBits := fs.String("stop-bits", cfg.StopBits.String(), "One, OnePointFive or Two")
	poll := fs.Bool("poll", cfg.RequiresExplicitPoll, "Scale needs a poll command (no auto-print)")
	command := fs.String("command", cfg.PollCommand, "Poll command sent when -poll is set")
	waitMs := fs.Int("wait-ms", cfg.PostCommandWaitMs, "Wait after the poll command, in milliseconds")
	driver := fs.String("driver", cfg.Driver, "Serial driver: bugst (default) or tarm")
	_ = fs.Parse(args)

	cfg.Model = *model
	cfg.Description = *description
	cfg.PortName = *port
	cfg.BaudRate = *baud
	cfg.DataBits = *dataBits
	cfg.RequiresExplicitPoll = *poll
	cfg.PollCommand = *command
	cfg.PostCommandWaitMs = *waitMs
	cfg.Driver = *driver

	err = errors.Join(
		cfg.Parity.UnmarshalText([]byte(*parity)),
		cfg.StopBits.UnmarshalText([]byte(*stopBits)),
		cfg.Validate(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return exitConfig
	}

	if err = config.Save(cfg, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot save configuration: %v\n", err)
		return exitConfig
	}

	fmt.Printf("Configuration saved: %s\n", *out)
	return exitOK
}

func runList() int {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot list serial ports: %v\n", err)
		return exitReadFailed
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return exitOK
	}

	for _, port := range ports {
		if port.IsUSB {
			fmt.Printf("%s\tUSB %s:%s %s %s\n", port.Name, port.VID, port.PID, port.SerialNumber, port.Product)
		} else {
			fmt.Println(port.Name)
		}
	}

	return exitOK
}
