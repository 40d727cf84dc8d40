package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testRegistry() []RegisteredServer {
	return []RegisteredServer{
		{RecordID: 1, ServerName: "srv-a", DiscoveryURL: "opc.tcp://a:4840", ServerCapabilities: []string{"DA"}},
		{RecordID: 2, ServerName: "srv-b", DiscoveryURL: "opc.tcp://b:4840", ServerCapabilities: []string{"DA", "HA"}},
		{RecordID: 3, ServerName: "srv-c", DiscoveryURL: "opc.tcp://c:4840", ServerCapabilities: []string{"HA"}},
	}
}

func TestFindServersOnNetworkFiltersByStartingRecordID(t *testing.T) {
	resp := FindServersOnNetwork(testRegistry(), 0, FindServersOnNetworkRequest{StartingRecordID: 2})
	require.Len(t, resp.Servers, 2)
	require.Equal(t, uint32(2), resp.Servers[0].RecordID)
}

func TestFindServersOnNetworkFiltersByCapability(t *testing.T) {
	resp := FindServersOnNetwork(testRegistry(), 0, FindServersOnNetworkRequest{ServerCapabilityFilter: []string{"HA"}})
	require.Len(t, resp.Servers, 2)
}

func TestFindServersOnNetworkRespectsMaxRecords(t *testing.T) {
	resp := FindServersOnNetwork(testRegistry(), 0, FindServersOnNetworkRequest{MaxRecordsToReturn: 1})
	require.Len(t, resp.Servers, 1)
}

func TestFindServersOnNetworkResponseOwnsStrings(t *testing.T) {
	registry := testRegistry()
	resp := FindServersOnNetwork(registry, 0, FindServersOnNetworkRequest{})
	resp.Servers[0].ServerCapabilities[0] = "mutated"
	require.Equal(t, "DA", registry[0].ServerCapabilities[0])
}

func TestGetEndpointsFiltersByURL(t *testing.T) {
	configured := []EndpointDescription{
		{EndpointURL: "opc.tcp://demo:4840", SecurityPolicyURI: "http://opcfoundation.org/UA/SecurityPolicy#None", SecurityMode: SecurityModeNone},
		{EndpointURL: "opc.tcp://other:4840", SecurityPolicyURI: "http://opcfoundation.org/UA/SecurityPolicy#Basic256", SecurityMode: SecurityModeSign},
	}
	resp := GetEndpoints(configured, GetEndpointsRequest{EndpointURL: "opc.tcp://demo:4840"})
	require.Len(t, resp.Endpoints, 1)
	require.Equal(t, SecurityModeNone, resp.Endpoints[0].SecurityMode)
}

func TestGetEndpointsEmptyURLReturnsAll(t *testing.T) {
	configured := []EndpointDescription{{EndpointURL: "opc.tcp://demo:4840"}, {EndpointURL: "opc.tcp://other:4840"}}
	resp := GetEndpoints(configured, GetEndpointsRequest{})
	require.Len(t, resp.Endpoints, 2)
}
