// Command read is the spec §6 read demo: it activates a session against
// the configured (or built-in demo) address space and reads one
// node/attribute pair, mirroring ingopcs_read.c's "read the node id and
// attribute id from the command line" flow.
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
	fmt.Fprintln(os.Stderr, `usage: read [--config path] <nodeid> <attribute-id: 1..22>

  NodeId |  1    DisplayName |  4    Value      | 13
  NodeClass |  2 Description |  5    DataType   | 14
  BrowseName |  3             AccessLevel | 17`)
}

func main() {
	configPath := democli.Flags()
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}

	boot, err := democli.Init(*configPath)
	if err != nil {
		democli.Fail("%v", err)
	}

	nodeID := democli.ParseNodeID(flag.Arg(0))
	var attrID int
	if _, err := fmt.Sscanf(flag.Arg(1), "%d", &attrID); err != nil || attrID < 1 || attrID > 22 {
		democli.Fail("invalid attribute id: %q, expected an integer in 1..22", flag.Arg(1))
	}

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

	resp := boot.Adapters.Read(services.ReadRequest{
		NodesToRead: []services.ReadValueId{{NodeID: nodeID, AttributeID: services.AttributeID(attrID)}},
	})

	if err := m.SessionResponse(client.SessionResult{Status: resp.ServiceResult, Body: resp}); err != nil {
		democli.Fail("%v", err)
	}

	if resp.ServiceResult != values.Good {
		democli.Fail("read failed: %s", resp.ServiceResult)
	}
	result := resp.Results[0]
	fmt.Printf("# Status: %s\n", result.Status)
	fmt.Printf("# Value: %s\n", democli.FormatVariant(result.Value))
}
