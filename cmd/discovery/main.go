// Command discovery is the spec §6 discovery demo: it listens on the
// configured multicast group for register announcements, folds them into
// a FindServersOnNetwork/GetEndpoints query, and prints the result — the
// discovery side of ingopcs_discovery.c's FindServers/FindServersOnNetwork
// round trip. With --repeat it re-runs on the configured cron expression
// (robfig/cron) instead of exiting after one pass, for a long-lived
// discovery daemon.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/edge-opcua/opcuacore/internal/democli"
	"github.com/edge-opcua/opcuacore/internal/opcua/services"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

func main() {
	configPath := democli.Flags()
	window := flag.Duration("window", 2*time.Second, "how long to listen for announcements per pass")
	repeat := flag.Bool("repeat", false, "keep running, re-polling on the configured cron schedule")
	flag.Parse()

	boot, err := democli.Init(*configPath)
	if err != nil {
		democli.Fail("%v", err)
	}
	dc := boot.Config.Discover

	runOnce := func() {
		sock, err := democli.OpenMulticastListener(dc.MulticastAddr, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "# Warning: opening multicast listener on %s: %v\n", dc.MulticastAddr, err)
			return
		}
		defer sock.Close()

		anns := democli.PollAnnouncements(sock, *window)
		registry := make([]services.RegisteredServer, 0, len(anns))
		seen := make(map[uint32]bool)
		for _, ann := range anns {
			if seen[ann.RecordID] {
				continue
			}
			seen[ann.RecordID] = true
			registry = append(registry, services.RegisteredServer{
				RecordID:           ann.RecordID,
				ServerName:         ann.ServerName,
				DiscoveryURL:       ann.DiscoveryURL,
				ServerCapabilities: ann.Capabilities,
			})
		}

		resp := services.FindServersOnNetwork(registry, values.DateTime{}, services.FindServersOnNetworkRequest{})
		fmt.Printf("# %d server(s) found:\n", len(resp.Servers))
		for _, srv := range resp.Servers {
			fmt.Printf("  - %s @ %s  capabilities=%v\n", srv.ServerName, srv.DiscoveryURL, srv.ServerCapabilities)

			eps := services.GetEndpoints([]services.EndpointDescription{{
				EndpointURL:       srv.DiscoveryURL,
				SecurityPolicyURI: boot.Config.Channel.SecurityPolicyURI,
			}}, services.GetEndpointsRequest{EndpointURL: srv.DiscoveryURL})
			for _, ep := range eps.Endpoints {
				fmt.Printf("      endpoint %s  policy=%s\n", ep.EndpointURL, ep.SecurityPolicyURI)
			}
		}
	}

	if !*repeat {
		runOnce()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(dc.CronExpr, runOnce); err != nil {
		democli.Fail("invalid discovery.cron_expr %q: %v", dc.CronExpr, err)
	}
	fmt.Printf("# Info: polling every %q (ctrl-C to stop)\n", dc.CronExpr)
	runOnce()
	c.Run()
}
