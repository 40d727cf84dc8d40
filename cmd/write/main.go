// Command write is the spec §6 write demo: it activates a session and
// writes one scalar Double or Int64 value to a node's Value attribute,
// mirroring ingopcs_write.c's "-d|-i" type-qualified argument shape.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/edge-opcua/opcuacore/internal/democli"
	"github.com/edge-opcua/opcuacore/internal/opcua/client"
	"github.com/edge-opcua/opcuacore/internal/opcua/services"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: write [--config path] <nodeid> -d|-i <value>")
}

func main() {
	configPath := democli.Flags()
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 3 {
		usage()
		os.Exit(1)
	}

	boot, err := democli.Init(*configPath)
	if err != nil {
		democli.Fail("%v", err)
	}

	nodeID := democli.ParseNodeID(flag.Arg(0))

	var variant values.Variant
	switch flag.Arg(1) {
	case "-d":
		f, err := strconv.ParseFloat(flag.Arg(2), 64)
		if err != nil {
			democli.Fail("failed to read a double %q", flag.Arg(2))
		}
		variant = values.NewDoubleVariant(f)
	case "-i":
		i, err := strconv.ParseInt(flag.Arg(2), 10, 64)
		if err != nil {
			democli.Fail("failed to read an integer %q", flag.Arg(2))
		}
		variant = values.NewInt64Variant(i)
	default:
		democli.Fail("type qualifier not recognized: %q, expected -d or -i", flag.Arg(1))
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

	resp := boot.Adapters.Write(services.WriteRequest{
		NodesToWrite: []services.WriteValue{{
			NodeID:      nodeID,
			AttributeID: services.AttributeValue,
			Value:       values.DataValue{Value: variant, Status: values.Good},
		}},
	})

	if err := m.SessionResponse(client.SessionResult{Status: resp.ServiceResult, Body: resp}); err != nil {
		democli.Fail("%v", err)
	}

	if resp.ServiceResult != values.Good || resp.Results[0] != values.Good {
		democli.Fail("write failed: service=%s result=%s", resp.ServiceResult, resp.Results[0])
	}
	fmt.Println("# Info: write succeeded")
}
