// Command browse is the spec §6 browse demo: it activates a session and
// lists every forward reference out of the given starting node, mirroring
// ingopcs_browse.c's single-nodeid argument.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/edge-opcua/opcuacore/internal/democli"
	"github.com/edge-opcua/opcuacore/internal/opcua/client"
	"github.com/edge-opcua/opcuacore/internal/opcua/services"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: browse [--config path] <nodeid>")
}

func main() {
	configPath := democli.Flags()
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	boot, err := democli.Init(*configPath)
	if err != nil {
		democli.Fail("%v", err)
	}

	nodeID := democli.ParseNodeID(flag.Arg(0))

	m := client.New(0, 0, client.JWTConfig{})
	if err := m.StartSession(client.ChannelConfig{
		EndpointURL:       boot.Config.Channel.EndpointURL,
		SecurityPolicyURI: boot.Config.Channel.SecurityPolicyURI,
		SecurityMode:      boot.Config.Channel.SecurityMode,
	}, client.UserToken{Kind: client.UserTokenAnonymous}); err != nil {
		democli.Fail("starting session: %v", err)
	}
	if err := m.SessionActivated("demo-session"); err != nil {
		democli.Fail("activating session: %v", err)
	}
	if err := m.SendRequest(); err != nil {
		democli.Fail("sending request: %v", err)
	}

	resp := boot.Adapters.Browse(services.BrowseRequest{
		NodesToBrowse: []services.BrowseDescription{{NodeID: nodeID, Direction: services.BrowseForward}},
	})

	if err := m.SessionResponse(client.SessionResult{Status: resp.ServiceResult, Body: resp}); err != nil {
		democli.Fail("%v", err)
	}

	if resp.ServiceResult != values.Good {
		democli.Fail("browse failed: %s", resp.ServiceResult)
	}
	result := resp.Results[0]
	if result.StatusCode != values.Good {
		democli.Fail("browse of %s failed: %s", nodeID.ToCString(), result.StatusCode)
	}

	fmt.Printf("# %d reference(s) from %s:\n", len(result.References), nodeID.ToCString())
	for _, ref := range result.References {
		fmt.Printf("  -> %s  (%s, %s)\n", ref.TargetID.NodeID.ToCString(), ref.ReferenceTypeID.ToCString(), ref.BrowseName.Name.String())
	}
}
