// Package client implements the ClientStateMachine: one instance per
// logical client scenario (a discovery round, or a session plus one
// in-flight request), driven by events delivered from the event
// dispatcher (internal/opcua/eventmgr).
package client

import (
	"sync"

	"github.com/edge-opcua/opcuacore/internal/opcua/status"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// ChannelConfig names the secure channel a machine operates over.
type ChannelConfig struct {
	EndpointURL       string
	SecurityPolicyURI string
	SecurityMode      string
}

// UserTokenKind discriminates how a session is authenticated.
type UserTokenKind uint8

const (
	UserTokenAnonymous UserTokenKind = iota
	UserTokenUserName
	UserTokenJWT
)

// UserToken is the credential passed to StartSession.
type UserToken struct {
	Kind     UserTokenKind
	Username string
	Password string
	JWTToken string
}

// DiscoveryResult is the body carried by a discovery_response event.
type DiscoveryResult struct {
	Status    values.StatusCode
	Endpoints []DiscoveryEndpoint
}

// DiscoveryEndpoint is one entry of a GetEndpoints/FindServers response.
type DiscoveryEndpoint struct {
	EndpointURL       string
	SecurityPolicyURI string
	SecurityMode      string
}

// SessionResult is the body carried by a session_response event (the
// response to whatever request the caller sent once activated).
type SessionResult struct {
	Status values.StatusCode
	Body   any
}

// DiscoveryCallback receives the body of a discovery_response event.
type DiscoveryCallback func(DiscoveryResult)

// SessionCallback receives the body of a session_response event.
type SessionCallback func(SessionResult)

// Machine is one ClientStateMachine instance. The zero value is not
// usable; construct with New.
type Machine struct {
	mu sync.Mutex

	state  State
	active bool // true once SessionActivated has fired and no SendRequest has yet followed

	channelConfigIdx int
	sessionIdx       int
	sessionID        string

	jwtConfig JWTConfig

	onDiscovery DiscoveryCallback
	onSession   SessionCallback
}

// New constructs a machine in state Init, bound to the given channel and
// session config indices (so multiple machines sharing one process don't
// collide over which channel/session slot they occupy).
func New(channelConfigIdx, sessionIdx int, jwtConfig JWTConfig) *Machine {
	return &Machine{
		state:            Init,
		channelConfigIdx: channelConfigIdx,
		sessionIdx:       sessionIdx,
		jwtConfig:        jwtConfig,
	}
}

// State returns the machine's current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SessionID returns the stored OPC UA session id, valid once activated.
func (m *Machine) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// OnDiscoveryResponse registers the callback invoked by DiscoveryResponse.
func (m *Machine) OnDiscoveryResponse(cb DiscoveryCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDiscovery = cb
}

// OnSessionResponse registers the callback invoked by SessionResponse.
func (m *Machine) OnSessionResponse(cb SessionCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSession = cb
}

func (m *Machine) invalidTransition(op string) error {
	return status.New("client."+op, status.InvalidState)
}

// StartDiscovery submits a GetEndpoints/FindServers request and moves the
// machine from Init to WaitResponse.
func (m *Machine) StartDiscovery(cfg ChannelConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Init {
		return m.invalidTransition("StartDiscovery")
	}
	m.state = WaitResponse
	return nil
}

// StartSession submits a channel activation request and moves the machine
// from Init to WaitActivation. A malformed JWT user token is rejected
// synchronously, before any transition, rather than waiting for an
// asynchronous session_activation_failed event.
func (m *Machine) StartSession(cfg ChannelConfig, token UserToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Init {
		return m.invalidTransition("StartSession")
	}
	if token.Kind == UserTokenJWT {
		if _, err := ValidateUserToken(token.JWTToken, m.jwtConfig); err != nil {
			return status.Wrap("client.StartSession", status.InvalidParameters, err)
		}
	}
	m.state = WaitActivation
	m.active = false
	return nil
}

// SessionActivated stores the session id and marks the machine ready for
// the caller to send a request; it does not by itself enter WaitResponse
// (that happens when the caller calls SendRequest).
func (m *Machine) SessionActivated(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != WaitActivation {
		return m.invalidTransition("SessionActivated")
	}
	m.sessionID = sessionID
	m.active = true
	return nil
}

// SessionActivationFailed aborts the machine.
func (m *Machine) SessionActivationFailed() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != WaitActivation {
		return m.invalidTransition("SessionActivationFailed")
	}
	m.state = Abort
	return nil
}

// SendRequest moves an activated session from WaitActivation into
// WaitResponse, i.e. the caller has now submitted its one request.
func (m *Machine) SendRequest() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != WaitActivation || !m.active {
		return m.invalidTransition("SendRequest")
	}
	m.state = WaitResponse
	return nil
}

// DiscoveryResponse hands body to the registered callback and moves to
// WaitFinished, or to Abort if the response carries a Bad* status.
func (m *Machine) DiscoveryResponse(body DiscoveryResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != WaitResponse {
		return m.invalidTransition("DiscoveryResponse")
	}
	if m.onDiscovery != nil {
		m.onDiscovery(body)
	}
	if body.Status.IsBad() {
		m.state = Abort
	} else {
		m.state = WaitFinished
	}
	return nil
}

// SessionResponse hands body to the registered callback and moves to
// WaitFinished.
func (m *Machine) SessionResponse(body SessionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != WaitResponse {
		return m.invalidTransition("SessionResponse")
	}
	if m.onSession != nil {
		m.onSession(body)
	}
	m.state = WaitFinished
	return nil
}

// SendRequestFailed aborts the machine.
func (m *Machine) SendRequestFailed() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != WaitResponse {
		return m.invalidTransition("SendRequestFailed")
	}
	m.state = Abort
	return nil
}

// StopSession issues CloseSession (conceptually — the transport call is
// the caller's job) and resets the machine to Init, forgetting the
// session id.
func (m *Machine) StopSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != WaitFinished {
		return m.invalidTransition("StopSession")
	}
	m.state = Init
	m.sessionID = ""
	m.active = false
	return nil
}
