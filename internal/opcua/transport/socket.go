// Package transport implements the byte-stream/datagram socket glue
// underneath the secure channel layer: stream (TCP) and datagram (UDP, with
// IPv4 multicast) sockets behind a common readiness model (spec §4.I).
package transport

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/edge-opcua/opcuacore/internal/opcua/status"
)

// Kind distinguishes the two socket flavors the layer presents.
type Kind uint8

const (
	KindStream Kind = iota
	KindDatagram
)

// Address is the resolved endpoint a socket was created against: host,
// port and family, mirroring SOPC_Socket_AddressInfo.
type Address struct {
	Host string
	Port uint16
	IPv6 bool
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, fmt.Sprintf("%d", a.Port))
}

// ResolveAddress parses "host:port" and records whether the resolved IP is
// IPv6, same information SOPC_Socket_AddrInfo_Get's hints carry.
func ResolveAddress(hostPort string) (Address, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return Address{}, status.Wrap("transport.ResolveAddress", status.InvalidParameters, err)
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil || port < 0 || port > 65535 {
		return Address{}, status.New("transport.ResolveAddress", status.InvalidParameters)
	}
	ip := net.ParseIP(host)
	return Address{Host: host, Port: uint16(port), IPv6: ip != nil && ip.To4() == nil}, nil
}

// Socket is a single stream or datagram endpoint. A Socket is not safe for
// concurrent Read and Close from different goroutines racing shutdown
// without external synchronization, same as a raw file descriptor.
type Socket struct {
	kind    Kind
	addr    Address
	blocking bool

	conn net.Conn       // KindStream, and KindDatagram after Connect
	pc   net.PacketConn // KindDatagram, listen/receive mode
	br   *bufio.Reader  // stream readiness: Peek(1) without consuming

	closed bool
}

// DialStream opens a new TCP connection. setNonBlocking selects whether
// subsequent Read/Write calls return status.WouldBlock instead of blocking
// (SOPC_Socket_CreateNew's setNonBlocking flag).
func DialStream(addr Address, setNonBlocking bool) (*Socket, error) {
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		return nil, status.Wrap("transport.DialStream", status.Nok, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true) // disable Nagle: core always writes a full UA binary message
	}
	return &Socket{kind: KindStream, addr: addr, blocking: !setNonBlocking, conn: conn, br: bufio.NewReader(conn)}, nil
}

// ListenStream opens a TCP listening socket bound to addr.
func ListenStream(addr Address, setReuseAddr bool) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr.String())
	if err != nil {
		return nil, status.Wrap("transport.ListenStream", status.Nok, err)
	}
	return ln, nil
}

// AcceptStream wraps a freshly accepted connection as a Socket.
func AcceptStream(ln net.Listener, setNonBlocking bool) (*Socket, error) {
	conn, err := ln.Accept()
	if err != nil {
		return nil, status.Wrap("transport.AcceptStream", status.Nok, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return &Socket{kind: KindStream, blocking: !setNonBlocking, conn: conn, br: bufio.NewReader(conn)}, nil
}

// DialDatagram opens a UDP socket for sending to addr (SOPC_UDP_Socket_CreateToSend).
func DialDatagram(addr Address, setNonBlocking bool) (*Socket, error) {
	conn, err := net.Dial("udp", addr.String())
	if err != nil {
		return nil, status.Wrap("transport.DialDatagram", status.Nok, err)
	}
	return &Socket{kind: KindDatagram, addr: addr, blocking: !setNonBlocking, conn: conn}, nil
}

// ListenDatagram opens a UDP socket bound to addr for receiving
// (SOPC_UDP_Socket_CreateToReceive). Multicast group membership is joined
// separately via Socket.JoinMulticastGroup.
func ListenDatagram(addr Address, setNonBlocking bool) (*Socket, error) {
	pc, err := net.ListenPacket("udp", addr.String())
	if err != nil {
		return nil, status.Wrap("transport.ListenDatagram", status.Nok, err)
	}
	return &Socket{kind: KindDatagram, addr: addr, blocking: !setNonBlocking, pc: pc}, nil
}

// Kind reports whether s is a stream or datagram socket.
func (s *Socket) Kind() Kind { return s.kind }

func (s *Socket) deadline() time.Time {
	if s.blocking {
		return time.Time{} // zero value clears any deadline: block indefinitely
	}
	// An already-past deadline makes the runtime fail the call before it
	// touches the socket, even with data waiting; a 1ms deadline lets a
	// ready read or write complete and otherwise times out almost at once.
	return time.Now().Add(time.Millisecond)
}

// Read reads into buf (SOPC_Socket_Read / SOPC_UDP_Socket_ReceiveFrom,
// unified since the caller already knows the socket's Kind). Returns
// status.WouldBlock on a non-blocking socket with nothing ready, and
// status.Closed when the peer has closed a stream socket.
func (s *Socket) Read(buf []byte) (int, error) {
	if s.closed {
		return 0, status.New("transport.Read", status.InvalidParameters)
	}
	var n int
	var err error
	switch s.kind {
	case KindStream:
		if err := s.conn.SetReadDeadline(s.deadline()); err != nil {
			return 0, status.Wrap("transport.Read", status.Nok, err)
		}
		n, err = s.br.Read(buf)
	case KindDatagram:
		if s.pc != nil {
			if err := s.pc.SetReadDeadline(s.deadline()); err != nil {
				return 0, status.Wrap("transport.Read", status.Nok, err)
			}
			n, _, err = s.pc.ReadFrom(buf)
		} else {
			if err := s.conn.SetReadDeadline(s.deadline()); err != nil {
				return 0, status.Wrap("transport.Read", status.Nok, err)
			}
			n, err = s.conn.Read(buf)
		}
	}
	if err == nil {
		return n, nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return 0, status.New("transport.Read", status.WouldBlock)
	}
	if n == 0 {
		return 0, status.Wrap("transport.Read", status.Closed, err)
	}
	return n, status.Wrap("transport.Read", status.Nok, err)
}

// Write writes buf (SOPC_Socket_Write / SOPC_UDP_Socket_SendTo).
func (s *Socket) Write(buf []byte) (int, error) {
	if s.closed {
		return 0, status.New("transport.Write", status.InvalidParameters)
	}
	w := s.conn
	if w == nil {
		return 0, status.New("transport.Write", status.InvalidState)
	}
	if err := w.SetWriteDeadline(s.deadline()); err != nil {
		return 0, status.Wrap("transport.Write", status.Nok, err)
	}
	n, err := w.Write(buf)
	if err == nil {
		return n, nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return n, status.New("transport.Write", status.WouldBlock)
	}
	return n, status.Wrap("transport.Write", status.Nok, err)
}

// Close closes the socket. Idempotent.
func (s *Socket) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	removeSocketFromAllGroups(s)
	if s.conn != nil {
		return s.conn.Close()
	}
	if s.pc != nil {
		return s.pc.Close()
	}
	return nil
}

// readReady reports whether a pending read would return immediately, used by
// WaitEvents. Stream sockets use a non-consuming Peek; datagram sockets
// always report false, and WaitEvents does not probe them any other way,
// so it never returns a datagram socket as ready.
func (s *Socket) readReady(timeout time.Duration) bool {
	if s.kind != KindStream || s.br == nil {
		return false
	}
	deadline := time.Now().Add(timeout)
	if timeout <= 0 {
		deadline = time.Now().Add(time.Millisecond) // poll: a past deadline would fail even with data pending
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return false
	}
	_, err := s.br.Peek(1)
	return err == nil
}
