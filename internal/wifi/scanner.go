// Package wifi reads the current connection's signal information from the
// host's wireless tooling so a survey point can be recorded without typing the
// RSSI by hand.
package wifi

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

// DefaultTimeout bounds a single scan command.
const DefaultTimeout = 5 * time.Second

var (
	ErrNoInfo      = errors.New("no wifi information could be retrieved")
	ErrTimeout     = errors.New("wifi scan command timed out")
	ErrNoRSSI      = errors.New("scan did not report an RSSI")
	ErrUnsupported = errors.New("wifi scanning is not supported on this platform")
)

// Info holds whatever fields the tool reported. RSSI and Noise are ints
// when they parse; everything else is a string.
type Info map[string]interface{}

// RSSI returns the signal strength in dBm.
func (i Info) RSSI() (int, error) {
	switch v := i["RSSI"].(type) {
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNoRSSI, v)
		}
		return n, nil
	}
	return 0, ErrNoRSSI
}

// Scanner reports the current connection.
type Scanner interface {
	Scan(ctx context.Context) (Info, error)
}

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type field struct {
	key     string
	pattern *regexp.Regexp
	numeric bool
}

// CommandScanner runs an external tool and extracts fields from its output.
type CommandScanner struct {
	Name    string
	Args    []string
	Timeout time.Duration
	Run     Runner

	fields []field
}

// Scan runs the command under Timeout and parses its output.
func (s *CommandScanner) Scan(ctx context.Context) (Info, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	run := s.Run
	if run == nil {
		run = execRunner
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := run(ctx, s.Name, s.Args...)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, ErrTimeout
	}
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", s.Name, err)
	}

	info := parse(string(out), s.fields)
	if len(info) == 0 {
		return nil, ErrNoInfo
	}
	return info, nil
}

func parse(out string, fields []field) Info {
	info := Info{}
	for _, f := range fields {
		m := f.pattern.FindStringSubmatch(out)
		if m == nil {
			continue
		}
		value := m[1]
		if f.numeric {
			if n, err := strconv.Atoi(value); err == nil {
				info[f.key] = n
				continue
			}
		}
		info[f.key] = value
	}
	return info
}

var wdutilFields = []field{
	{key: "SSID", pattern: regexp.MustCompile(`(?m)^\s*SSID\s*:\s*(.+?)\s*$`)},
	{key: "RSSI", pattern: regexp.MustCompile(`(?m)^\s*RSSI\s*:\s*(-?\d+)\s*dBm`), numeric: true},
	{key: "Noise", pattern: regexp.MustCompile(`(?m)^\s*Noise\s*:\s*(-?\d+)\s*dBm`), numeric: true},
	{key: "Channel", pattern: regexp.MustCompile(`(?m)^\s*Channel\s*:\s*(.+?)\s*$`)},
	{key: "Tx Rate", pattern: regexp.MustCompile(`(?m)^\s*Tx Rate\s*:\s*(.+?)\s*$`)},
}

var iwFields = []field{
	{key: "SSID", pattern: regexp.MustCompile(`(?m)^\s*SSID:\s*(.+?)\s*$`)},
	{key: "RSSI", pattern: regexp.MustCompile(`(?m)^\s*signal:\s*(-?\d+)\s*dBm`), numeric: true},
	{key: "Frequency", pattern: regexp.MustCompile(`(?m)^\s*freq:\s*(\S+)`)},
	{key: "Tx Rate", pattern: regexp.MustCompile(`(?m)^\s*tx bitrate:\s*(.+?)\s*$`)},
}

// ParseWdutil extracts fields from `wdutil info` output (macOS).
func ParseWdutil(out string) Info { return parse(out, wdutilFields) }

// ParseIw extracts fields from `iw dev <iface> link` output (Linux).
func ParseIw(out string) Info { return parse(out, iwFields) }

// NewWdutilScanner needs passwordless sudo for wdutil.
func NewWdutilScanner() *CommandScanner {
	return &CommandScanner{
		Name:    "sudo",
		Args:    []string{"wdutil", "info"},
		Timeout: DefaultTimeout,
		fields:  wdutilFields,
	}
}

func NewIwScanner(iface string) *CommandScanner {
	if iface == "" {
		iface = "wlan0"
	}
	return &CommandScanner{
		Name:    "iw",
		Args:    []string{"dev", iface, "link"},
		Timeout: DefaultTimeout,
		fields:  iwFields,
	}
}

// NewPlatformScanner picks the tool for the running OS.
func NewPlatformScanner(iface string) (*CommandScanner, error) {
	switch runtime.GOOS {
	case "darwin":
		return NewWdutilScanner(), nil
	case "linux":
		return NewIwScanner(iface), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, runtime.GOOS)
}
