//go:build linux

package backlight

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealSwitch drives the backlight enable line on actual hardware using the
// Linux GPIO character device.
type RealSwitch struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealSwitch requests the backlight pin as an output, driven high so the
// panel is lit from startup.
func NewRealSwitch(pin int) (*RealSwitch, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(1))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request backlight pin %d: %w", pin, err)
	}

	return &RealSwitch{chip: chip, line: line}, nil
}

// On drives the enable line high.
func (s *RealSwitch) On() error {
	if err := s.line.SetValue(1); err != nil {
		return fmt.Errorf("set backlight pin high: %w", err)
	}
	return nil
}

// Off drives the enable line low.
func (s *RealSwitch) Off() error {
	if err := s.line.SetValue(0); err != nil {
		return fmt.Errorf("set backlight pin low: %w", err)
	}
	return nil
}

// Close releases GPIO resources. The line is driven high first so a daemon
// restart never leaves the panel dark.
func (s *RealSwitch) Close() error {
	var errs []error

	if s.line != nil {
		if err := s.line.SetValue(1); err != nil {
			errs = append(errs, fmt.Errorf("restore backlight pin: %w", err))
		}
		if err := s.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close backlight pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
