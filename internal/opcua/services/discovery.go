package services

import "github.com/edge-opcua/opcuacore/internal/opcua/values"

// RegisteredServer is a server entry the discovery registry tracks, the
// payload msg_find_servers_on_network_bs attaches onto each response
// record (ServerName/DiscoveryUrl/ServerCapabilities).
type RegisteredServer struct {
	RecordID            uint32
	ServerName           string
	DiscoveryURL         string
	ServerCapabilities   []string
}

// FindServersOnNetworkRequest carries the paging/filter parameters of a
// FindServersOnNetwork call.
type FindServersOnNetworkRequest struct {
	StartingRecordID      uint32
	MaxRecordsToReturn    uint32 // 0 means unbounded
	ServerCapabilityFilter []string
}

// FindServersOnNetworkResponse owns copies of every server/capability
// string it returns: the response does not alias storage from the
// registry backing it, so the registry remains free to mutate or evict
// entries after the call returns.
type FindServersOnNetworkResponse struct {
	LastCounterResetTime values.DateTime
	Servers              []RegisteredServer
}

// FindServersOnNetwork filters registry by StartingRecordId, an optional
// capability filter (a server matches if it advertises every requested
// capability), and caps the result at MaxRecordsToReturn.
func FindServersOnNetwork(registry []RegisteredServer, resetTime values.DateTime, req FindServersOnNetworkRequest) FindServersOnNetworkResponse {
	resp := FindServersOnNetworkResponse{LastCounterResetTime: resetTime}
	for _, srv := range registry {
		if srv.RecordID < req.StartingRecordID {
			continue
		}
		if !hasAllCapabilities(srv.ServerCapabilities, req.ServerCapabilityFilter) {
			continue
		}
		resp.Servers = append(resp.Servers, copyRegisteredServer(srv))
		if req.MaxRecordsToReturn > 0 && uint32(len(resp.Servers)) >= req.MaxRecordsToReturn {
			break
		}
	}
	return resp
}

func hasAllCapabilities(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func copyRegisteredServer(s RegisteredServer) RegisteredServer {
	caps := make([]string, len(s.ServerCapabilities))
	copy(caps, s.ServerCapabilities)
	return RegisteredServer{
		RecordID:           s.RecordID,
		ServerName:         s.ServerName,
		DiscoveryURL:       s.DiscoveryURL,
		ServerCapabilities: caps,
	}
}

// EndpointDescription is one entry of a GetEndpointsResponse.
type EndpointDescription struct {
	EndpointURL       string
	SecurityPolicyURI string
	SecurityMode      SecurityMode
}

// SecurityMode mirrors the OPC UA MessageSecurityMode enumeration, the
// handful of values the demo client/server wiring actually exercises
// (spec §6 "Security policies supported").
type SecurityMode uint8

const (
	SecurityModeNone SecurityMode = iota
	SecurityModeSign
	SecurityModeSignAndEncrypt
)

// GetEndpointsRequest carries the endpoint URL the caller wants described
// (the demo client targets one hard-coded endpoint, spec §6 "Environment").
type GetEndpointsRequest struct {
	EndpointURL string
}

// GetEndpointsResponse lists every endpoint configured against the
// requested URL.
type GetEndpointsResponse struct {
	Endpoints []EndpointDescription
}

// GetEndpoints returns every entry of configured whose EndpointURL matches
// req.EndpointURL, or every entry if req.EndpointURL is empty.
func GetEndpoints(configured []EndpointDescription, req GetEndpointsRequest) GetEndpointsResponse {
	if req.EndpointURL == "" {
		return GetEndpointsResponse{Endpoints: append([]EndpointDescription(nil), configured...)}
	}
	var out []EndpointDescription
	for _, ep := range configured {
		if ep.EndpointURL == req.EndpointURL {
			out = append(out, ep)
		}
	}
	return GetEndpointsResponse{Endpoints: out}
}
