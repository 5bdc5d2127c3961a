package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// readTimeout bounds each individual Read on a real port. Overall reply
// timing is handled above this layer; this only keeps the read loop
// responsive to cancellation and quiet-gap checks.
const readTimeout = 100 * time.Millisecond

// Open opens device at the profile's baud rate (8N1) with a short fixed
// read timeout. It satisfies Opener.
func Open(device string, profile Profile) (Port, error) {
	mode := &serial.Mode{
		BaudRate: profile.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	return port, nil
}

// List returns the serial device names present on the system.
func List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
