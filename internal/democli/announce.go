package democli

import (
	"encoding/json"
	"net"
	"time"

	"github.com/edge-opcua/opcuacore/internal/opcua/services"
	"github.com/edge-opcua/opcuacore/internal/opcua/transport"
)

// Announcement is the demo tools' wire format for the register/discovery
// pair: register periodically multicasts one of these, discovery listens
// on the same group and folds received announcements into a
// FindServersOnNetwork registry. This stands in for the full UA multicast
// discovery (mDNS/DNS-SD) extension, out of scope per the core's
// non-goals, while still exercising a real UDP multicast round-trip.
type Announcement struct {
	RecordID     uint32   `json:"record_id"`
	ServerName   string   `json:"server_name"`
	DiscoveryURL string   `json:"discovery_url"`
	Capabilities []string `json:"capabilities"`
}

func (a Announcement) toRegisteredServer() services.RegisteredServer {
	return services.RegisteredServer{
		RecordID:           a.RecordID,
		ServerName:         a.ServerName,
		DiscoveryURL:       a.DiscoveryURL,
		ServerCapabilities: a.Capabilities,
	}
}

// OpenMulticastSender dials a UDP socket for sending to groupAddr (e.g.
// "239.255.0.1:4845"), ready for periodic Announcement broadcasts.
func OpenMulticastSender(groupAddr string) (*transport.Socket, error) {
	addr, err := transport.ResolveAddress(groupAddr)
	if err != nil {
		return nil, err
	}
	return transport.DialDatagram(addr, true)
}

// SendAnnouncement marshals ann as JSON and writes it to sock.
func SendAnnouncement(sock *transport.Socket, ann Announcement) error {
	payload, err := json.Marshal(ann)
	if err != nil {
		return err
	}
	_, err = sock.Write(payload)
	return err
}

// OpenMulticastListener opens and joins groupAddr for receiving
// announcements, on the given (or, if nil, the default) network
// interface.
func OpenMulticastListener(groupAddr string, iface *net.Interface) (*transport.Socket, error) {
	addr, err := transport.ResolveAddress(groupAddr)
	if err != nil {
		return nil, err
	}
	sock, err := transport.ListenDatagram(addr, true)
	if err != nil {
		return nil, err
	}
	ip := net.ParseIP(addr.Host)
	if err := sock.JoinMulticastGroup(ip, iface); err != nil {
		sock.Close()
		return nil, err
	}
	return sock, nil
}

// PollAnnouncements reads announcements off sock until deadline elapses,
// returning every one successfully decoded. Read errors (including the
// WouldBlock a non-blocking socket returns between packets) are treated as
// "nothing arrived this tick", not a fatal failure.
func PollAnnouncements(sock *transport.Socket, window time.Duration) []Announcement {
	deadline := time.Now().Add(window)
	var out []Announcement
	buf := make([]byte, 4096)
	for time.Now().Before(deadline) {
		n, err := sock.Read(buf)
		if err != nil {
			time.Sleep(20 * time.Millisecond)
			continue
		}
		var ann Announcement
		if err := json.Unmarshal(buf[:n], &ann); err == nil {
			out = append(out, ann)
		}
	}
	return out
}
