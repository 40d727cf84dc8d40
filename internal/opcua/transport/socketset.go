package transport

import (
	"sync"
	"time"
)

// SocketSet aggregates sockets for a single readiness wait, the Go analogue
// of SOPC_SocketSet: add/remove/is-present plus a highest-handle bookkeeping
// field (here a monotonically increasing sequence number standing in for
// "max fd", since Go sockets have no stable numeric handle to compare).
type SocketSet struct {
	mu      sync.Mutex
	sockets map[*Socket]uint64
	seq     uint64
	maxSeq  uint64
}

// NewSocketSet returns an empty set.
func NewSocketSet() *SocketSet {
	return &SocketSet{sockets: make(map[*Socket]uint64)}
}

// Add registers sock in the set, same contract as SOPC_SocketSet_Add: a nil
// or already-closed socket is silently ignored.
func (ss *SocketSet) Add(sock *Socket) {
	if sock == nil || sock.closed {
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.sockets[sock]; ok {
		return
	}
	ss.seq++
	ss.sockets[sock] = ss.seq
	if ss.seq > ss.maxSeq {
		ss.maxSeq = ss.seq
	}
}

// Remove drops sock from the set.
func (ss *SocketSet) Remove(sock *Socket) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sockets, sock)
}

// IsPresent reports whether sock is a member.
func (ss *SocketSet) IsPresent(sock *Socket) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	_, ok := ss.sockets[sock]
	return ok
}

// Clear empties the set.
func (ss *SocketSet) Clear() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sockets = make(map[*Socket]uint64)
	ss.maxSeq = 0
}

// Len returns the number of members.
func (ss *SocketSet) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sockets)
}

// WaitEvents blocks until at least one socket in readSet is readable, or
// timeout elapses (timeout of 0 waits indefinitely), mirroring
// SOPC_Socket_WaitSocketEvents. writeSet/exceptSet are accepted for
// interface parity with the original's three-set select but datagram and
// stream writes never block long enough in this implementation to need a
// separate write-readiness pass, so only readSet is actually polled.
//
// Returns the subset of readSet that is ready to read.
func WaitEvents(readSet, writeSet, exceptSet *SocketSet, timeout time.Duration) []*Socket {
	if readSet == nil || readSet.Len() == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return nil
	}

	readSet.mu.Lock()
	members := make([]*Socket, 0, len(readSet.sockets))
	for s := range readSet.sockets {
		members = append(members, s)
	}
	readSet.mu.Unlock()

	deadline := time.Now().Add(timeout)
	pollEvery := 5 * time.Millisecond
	for {
		var ready []*Socket
		for _, s := range members {
			if s.readReady(0) {
				ready = append(ready, s)
			}
		}
		if len(ready) > 0 {
			return ready
		}
		if timeout > 0 && time.Now().After(deadline) {
			return nil
		}
		if timeout == 0 {
			// indefinite wait: block on the first member until it's ready
			if len(members) == 1 {
				if members[0].readReady(24 * time.Hour) {
					return members
				}
				return nil
			}
		}
		time.Sleep(pollEvery)
	}
}
