package transport

import (
	"net"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/edge-opcua/opcuacore/internal/hal"
)

// EthMulticastPin is the GPIO pin driven high when a multicast group gets
// its first member and low when it loses its last one, to switch the
// board's Ethernet MAC hardware filter. It is a fixed pin on
// the reference carrier board this driver hook targets
// (P_MULTICAST_enet_add_mcast/P_MULTICAST_enet_rm_mcast's
// ETHERNET_CONFIG_TYPE_FILTER call, reduced here to a GPIO strobe since
// there is no portable Go Ethernet-MAC-filter API across board families).
const EthMulticastPin = 17

// ProgramEthernetMulticastFilter is the driver hook spec §4.I calls out:
// "on some embedded platforms (signaled by a capability flag), Ethernet
// multicast must be programmed on the underlying device". join selects
// whether group is being added to or removed from the hardware filter.
//
// Only boards whose HAL reports hal.BoardInfo.HasDedicatedEthernet need
// this; on every other board the socket-level IGMP join already suffices
// and this is a no-op.
func ProgramEthernetMulticastFilter(group net.IP, join bool) error {
	h, err := hal.GetGlobalHAL()
	if err != nil {
		return nil // no HAL registered: assume a non-embedded host, nothing to program
	}
	if !h.Info().HasDedicatedEthernet {
		return nil
	}

	if err := rpio.Open(); err != nil {
		return err
	}
	defer rpio.Close()

	pin := rpio.Pin(EthMulticastPin)
	pin.Output()
	if join {
		pin.High() // level stays high until a leave drives it low
	} else {
		pin.Low()
	}
	return nil
}
