//go:build !linux

package backlight

import "errors"

// RealSwitch is not available on non-Linux platforms.
type RealSwitch struct{}

// NewRealSwitch returns an error on non-Linux platforms.
func NewRealSwitch(pin int) (*RealSwitch, error) {
	return nil, errors.New("backlight: not supported on this platform (requires Linux)")
}

// On is not implemented on non-Linux platforms.
func (s *RealSwitch) On() error {
	return errors.New("backlight: not supported")
}

// Off is not implemented on non-Linux platforms.
func (s *RealSwitch) Off() error {
	return errors.New("backlight: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *RealSwitch) Close() error {
	return nil
}
