package transport

import (
	"time"

	"go.bug.st/serial"

	"github.com/edge-opcua/opcuacore/internal/opcua/status"
)

// SerialSocket is the serial-attached radio/modem transport variant: same
// Read/Write/Close shape as Socket, for embedded deployments where the
// secure channel runs over a point-to-point serial link instead of TCP/UDP
// (spec §4.I names TCP/UDP; a serial link is an additional transport the
// teacher's board support carries for radio/modem peripherals, adapted
// here to the same readiness-polling shape).
type SerialSocket struct {
	port     serial.Port
	blocking bool
	closed   bool
}

// SerialConfig mirrors serial.Mode's fields in the vocabulary the core
// transport layer already uses elsewhere (baud rate, data/stop bits,
// parity).
type SerialConfig struct {
	BaudRate int
	DataBits int
	StopBits int    // 1 or 2
	Parity   string // "none", "odd", "even"
}

func (c SerialConfig) mode() *serial.Mode {
	m := &serial.Mode{BaudRate: c.BaudRate, DataBits: c.DataBits, StopBits: serial.StopBits(c.StopBits)}
	switch c.Parity {
	case "odd":
		m.Parity = serial.OddParity
	case "even":
		m.Parity = serial.EvenParity
	default:
		m.Parity = serial.NoParity
	}
	return m
}

// OpenSerial opens portName with the given config. setNonBlocking installs
// a short read timeout so Read returns status.WouldBlock instead of
// blocking indefinitely, the serial-link analogue of a non-blocking socket.
func OpenSerial(portName string, cfg SerialConfig, setNonBlocking bool) (*SerialSocket, error) {
	p, err := serial.Open(portName, cfg.mode())
	if err != nil {
		return nil, status.Wrap("transport.OpenSerial", status.Nok, err)
	}
	s := &SerialSocket{port: p, blocking: !setNonBlocking}
	if setNonBlocking {
		_ = p.SetReadTimeout(50 * time.Millisecond)
	}
	return s, nil
}

// Read reads from the serial port.
func (s *SerialSocket) Read(buf []byte) (int, error) {
	if s.closed {
		return 0, status.New("transport.SerialSocket.Read", status.InvalidParameters)
	}
	n, err := s.port.Read(buf)
	if err != nil {
		return 0, status.Wrap("transport.SerialSocket.Read", status.Nok, err)
	}
	if n == 0 && !s.blocking {
		return 0, status.New("transport.SerialSocket.Read", status.WouldBlock)
	}
	return n, nil
}

// Write writes to the serial port.
func (s *SerialSocket) Write(buf []byte) (int, error) {
	if s.closed {
		return 0, status.New("transport.SerialSocket.Write", status.InvalidParameters)
	}
	n, err := s.port.Write(buf)
	if err != nil {
		return n, status.Wrap("transport.SerialSocket.Write", status.Nok, err)
	}
	return n, nil
}

// Close closes the serial port. Idempotent.
func (s *SerialSocket) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}
