// Package backlight drives the panel backlight power rail.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package backlight

// Switch controls the backlight power rail.
type Switch interface {
	// On enables the backlight.
	On() error

	// Off disables the backlight.
	Off() error

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the BCM pin wired to the backlight enable line.
const DefaultPin = 18
