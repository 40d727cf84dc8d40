// Command register is the spec §6 register demo: it periodically
// multicasts this server's discovery announcement (name, discovery URL,
// capabilities), the register side of the register/discovery pair
// ingopcs_register.c / ingopcs_discovery.c form. Unlike the original demo,
// which takes no arguments and registers once, this one repeats on an
// interval so a freshly started discovery client can find it.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edge-opcua/opcuacore/internal/democli"
)

func main() {
	configPath := democli.Flags()
	interval := flag.Duration("interval", 5*time.Second, "announcement interval")
	flag.Parse()

	boot, err := democli.Init(*configPath)
	if err != nil {
		democli.Fail("%v", err)
	}
	dc := boot.Config.Discover

	sock, err := democli.OpenMulticastSender(dc.MulticastAddr)
	if err != nil {
		democli.Fail("opening multicast sender on %s: %v", dc.MulticastAddr, err)
	}
	defer sock.Close()

	ann := democli.Announcement{
		RecordID:     1,
		ServerName:   dc.ServerName,
		DiscoveryURL: dc.DiscoveryURL,
		Capabilities: dc.Capabilities,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("# Info: announcing %q on %s every %s (ctrl-C to stop)\n", ann.ServerName, dc.MulticastAddr, *interval)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	if err := democli.SendAnnouncement(sock, ann); err != nil {
		democli.Fail("sending announcement: %v", err)
	}
	for {
		select {
		case <-ticker.C:
			if err := democli.SendAnnouncement(sock, ann); err != nil {
				fmt.Fprintf(os.Stderr, "# Warning: announcement failed: %v\n", err)
			}
		case <-sigCh:
			fmt.Println("# Info: stopping")
			return
		}
	}
}
