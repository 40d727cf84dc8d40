package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDialAcceptStreamRoundTrip(t *testing.T) {
	addr, err := ResolveAddress("127.0.0.1:0")
	require.NoError(t, err)

	ln, err := ListenStream(addr, true)
	require.NoError(t, err)
	defer ln.Close()

	lnAddr, err := ResolveAddress(ln.Addr().String())
	require.NoError(t, err)

	accepted := make(chan *Socket, 1)
	acceptErr := make(chan error, 1)
	go func() {
		s, err := AcceptStream(ln, false)
		accepted <- s
		acceptErr <- err
	}()

	client, err := DialStream(lnAddr, false)
	require.NoError(t, err)
	defer client.Close()

	server := <-accepted
	require.NoError(t, <-acceptErr)
	defer server.Close()

	n, err := client.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	buf := make([]byte, 16)
	n, err = server.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))
}

func TestNonBlockingReadReturnsWouldBlockWhenIdle(t *testing.T) {
	addr, err := ResolveAddress("127.0.0.1:0")
	require.NoError(t, err)

	ln, err := ListenStream(addr, true)
	require.NoError(t, err)
	defer ln.Close()

	lnAddr, err := ResolveAddress(ln.Addr().String())
	require.NoError(t, err)

	accepted := make(chan *Socket, 1)
	go func() {
		s, _ := AcceptStream(ln, true)
		accepted <- s
	}()

	client, err := DialStream(lnAddr, true)
	require.NoError(t, err)
	defer client.Close()

	server := <-accepted
	require.NotNil(t, server)
	defer server.Close()

	buf := make([]byte, 16)
	_, err = server.Read(buf)
	require.ErrorContains(t, err, "WouldBlock")
}

func TestCloseIsIdempotent(t *testing.T) {
	addr, err := ResolveAddress("127.0.0.1:0")
	require.NoError(t, err)
	ln, err := ListenStream(addr, true)
	require.NoError(t, err)
	lnAddr, err := ResolveAddress(ln.Addr().String())
	require.NoError(t, err)
	client, err := DialStream(lnAddr, false)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	ln.Close()
}

func TestReadReadyDetectsPendingData(t *testing.T) {
	addr, err := ResolveAddress("127.0.0.1:0")
	require.NoError(t, err)
	ln, err := ListenStream(addr, true)
	require.NoError(t, err)
	defer ln.Close()
	lnAddr, err := ResolveAddress(ln.Addr().String())
	require.NoError(t, err)

	accepted := make(chan *Socket, 1)
	go func() {
		s, _ := AcceptStream(ln, true)
		accepted <- s
	}()

	client, err := DialStream(lnAddr, false)
	require.NoError(t, err)
	defer client.Close()
	server := <-accepted
	defer server.Close()

	require.False(t, server.readReady(10*time.Millisecond))

	_, err = client.Write([]byte("x"))
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.True(t, server.readReady(50*time.Millisecond))

	// Peek must not consume: a following Read still sees the byte.
	buf := make([]byte, 1)
	n, err := server.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "x", string(buf[:n]))
}
