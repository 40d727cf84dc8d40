package transport

import (
	"net"
	"sync"

	"golang.org/x/net/ipv4"

	"github.com/edge-opcua/opcuacore/internal/opcua/status"
)

// groupMembership tracks, per joined multicast group, which sockets have
// joined it — the Go analogue of P_MULTICAST's tabMCast table, minus the
// fixed-size array bound (Zephyr's MAX_MCAST/MAX_ZEPHYR_SOCKET are a
// platform memory budget that does not apply here).
type groupMembership struct {
	mu      sync.Mutex
	members map[string]map[*Socket]struct{} // group IP string -> joined sockets
}

var mcast = &groupMembership{members: make(map[string]map[*Socket]struct{})}

// JoinMulticastGroup joins group on sock's underlying UDP connection,
// registering the membership in the per-process soft-filter table
// (P_MULTICAST_join_or_leave_mcast_group with bJoin=true). group must be a
// valid IPv4 multicast address.
func (s *Socket) JoinMulticastGroup(group net.IP, iface *net.Interface) error {
	ip4 := group.To4()
	if ip4 == nil || !ip4.IsMulticast() {
		return status.New("transport.JoinMulticastGroup", status.InvalidParameters)
	}
	if s.pc == nil {
		return status.New("transport.JoinMulticastGroup", status.InvalidState)
	}
	pconn := ipv4.NewPacketConn(s.pc)
	if err := pconn.JoinGroup(iface, &net.UDPAddr{IP: ip4}); err != nil {
		return status.Wrap("transport.JoinMulticastGroup", status.Nok, err)
	}

	mcast.mu.Lock()
	key := ip4.String()
	firstJoiner := mcast.members[key] == nil
	if firstJoiner {
		mcast.members[key] = make(map[*Socket]struct{})
	}
	mcast.members[key][s] = struct{}{}
	mcast.mu.Unlock()

	if firstJoiner {
		return ProgramEthernetMulticastFilter(ip4, true)
	}
	return nil
}

// LeaveMulticastGroup reverses JoinMulticastGroup
// (P_MULTICAST_join_or_leave_mcast_group with bJoin=false).
func (s *Socket) LeaveMulticastGroup(group net.IP, iface *net.Interface) error {
	ip4 := group.To4()
	if ip4 == nil {
		return status.New("transport.LeaveMulticastGroup", status.InvalidParameters)
	}
	if s.pc != nil {
		pconn := ipv4.NewPacketConn(s.pc)
		_ = pconn.LeaveGroup(iface, &net.UDPAddr{IP: ip4})
	}

	mcast.mu.Lock()
	key := ip4.String()
	delete(mcast.members[key], s)
	lastLeaver := len(mcast.members[key]) == 0
	if lastLeaver {
		delete(mcast.members, key)
	}
	mcast.mu.Unlock()

	if lastLeaver {
		return ProgramEthernetMulticastFilter(ip4, false)
	}
	return nil
}

// SoftFilter reports whether sock has joined group, so a datagram received
// on a socket bound to "any" can be rejected at the application level if
// its destination group was never joined by that socket
// (P_MULTICAST_soft_filter).
func SoftFilter(sock *Socket, group net.IP) bool {
	ip4 := group.To4()
	if ip4 == nil {
		return false
	}
	mcast.mu.Lock()
	defer mcast.mu.Unlock()
	joined, ok := mcast.members[ip4.String()]
	if !ok {
		return false
	}
	_, present := joined[sock]
	return present
}

// removeSocketFromAllGroups drops sock from every group's membership set,
// called from Close (P_MULTICAST_remove_sock_from_mcast).
func removeSocketFromAllGroups(s *Socket) {
	mcast.mu.Lock()
	defer mcast.mu.Unlock()
	for key, joined := range mcast.members {
		delete(joined, s)
		if len(joined) == 0 {
			delete(mcast.members, key)
		}
	}
}
