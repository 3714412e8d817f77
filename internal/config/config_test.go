package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NowakAdmin/ScaleReader/internal/devices"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"model": "DP-3005",
		"description": "Dock 2",
		"dataBits": 8,
		"parity": "None",
		"stopBits": "One",
		"portName": "COM3",
		"baudRate": 9600,
		"requiresExplicitPoll": false,
		"pollCommand": "",
		"postCommandWaitMs": 0
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "DP-3005", cfg.Model)
	assert.Equal(t, "COM3", cfg.PortName)
	assert.Equal(t, devices.ParityNone, cfg.Parity)
	assert.Equal(t, devices.StopBitsOne, cfg.StopBits)
	assert.False(t, cfg.RequiresExplicitPoll)
}

func TestLoad_JSONNumericEnums(t *testing.T) {
	path := writeFile(t, "config.json", `{"dataBits": 7, "parity": 2, "stopBits": 1, "portName": "COM4", "baudRate": 2400}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, devices.ParityEven, cfg.Parity)
	assert.Equal(t, devices.StopBitsOne, cfg.StopBits)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "scale.toml", `
model = "ID-1"
dataBits = 7
parity = "Odd"
stopBits = 2
portName = "/dev/ttyUSB0"
baudRate = 19200
requiresExplicitPoll = true
pollCommand = "SI"
postCommandWaitMs = 300
driver = "tarm"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, devices.ScaleConfig{
		Model:                "ID-1",
		DataBits:             7,
		Parity:               devices.ParityOdd,
		StopBits:             devices.StopBitsTwo,
		PortName:             "/dev/ttyUSB0",
		BaudRate:             19200,
		RequiresExplicitPoll: true,
		PollCommand:          "SI",
		PostCommandWaitMs:    300,
		Driver:               "tarm",
	}, *cfg)
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.ErrorContains(t, err, "config file not found")

	_, err = Load(writeFile(t, "empty.json", "  \n"))
	require.ErrorContains(t, err, "empty")

	_, err = Load(writeFile(t, "broken.json", `{"portName": `))
	require.ErrorContains(t, err, "parse")

	_, err = Load(writeFile(t, "broken.toml", `portName = `))
	require.ErrorContains(t, err, "parse")

	_, err = Load(writeFile(t, "bits.json", `{"dataBits": 9, "portName": "COM3", "baudRate": 9600, "stopBits": 1}`))
	require.ErrorIs(t, err, devices.ErrInvalidConfig)
}

func TestSave_TOMLKeepsEnumNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scale.toml")
	cfg := Default()
	cfg.Parity = devices.ParityMark
	cfg.StopBits = devices.StopBitsOnePointFive

	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `parity = "Mark"`)
	assert.Contains(t, string(data), `stopBits = "OnePointFive"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestPaths(t *testing.T) {
	assert.Equal(t, FileName, filepath.Base(Path()))
	assert.Equal(t, "logs", filepath.Base(LogDir()))
	assert.Equal(t, Dir(), filepath.Dir(Path()))
}
