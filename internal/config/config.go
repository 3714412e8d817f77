package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/NowakAdmin/ScaleReader/internal/devices"
)

const FileName = "config.json"

func Default() *devices.ScaleConfig {
	portName := "/dev/ttyUSB0"
	if runtime.GOOS == "windows" {
		portName = "COM1"
	}

	return &devices.ScaleConfig{
		DataBits: 8,
		Parity:   devices.ParityNone,
		StopBits: devices.StopBitsOne,
		PortName: portName,
		BaudRate: 9600,
	}
}

// Load reads a scale config from path. Files ending in .toml are decoded as
// TOML, everything else as JSON. The result is validated before it is
// returned so no port is touched with a bad config.
func Load(path string) (*devices.ScaleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("config file is empty: %s", path)
	}

	cfg := &devices.ScaleConfig{}
	if isTOML(path) {
		if _, err = toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err = json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func Save(cfg *devices.ScaleConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = json.MarshalIndent(cfg, "", "  "); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0o644)
}

// Dir is the directory holding the executable; config and logs live next to
// it so a scale PC can run the tool from a USB stick.
func Dir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}

	return filepath.Dir(exe)
}

func LogDir() string {
	return filepath.Join(Dir(), "logs")
}

func Path() string {
	return filepath.Join(Dir(), FileName)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
