// Package eventmgr implements a single-threaded, cooperative event
// dispatcher: each Manager owns one goroutine draining a FIFO queue and
// running a caller-supplied handler sequentially for every event, exactly
// as the channel/session/secure-channel managers are each their own
// single-threaded event consumer.
package eventmgr

import (
	"github.com/edge-opcua/opcuacore/internal/logger"
	"github.com/edge-opcua/opcuacore/internal/opcua/queue"
	"github.com/edge-opcua/opcuacore/internal/opcua/status"
	"github.com/edge-opcua/opcuacore/internal/opcua/timer"
)

// eventItem mirrors SOPC_EventDispatcherParams; nil marks the poison pill
// used to unblock the dispatch goroutine on shutdown.
type eventItem struct {
	event     int32
	eltID     uint32
	params    any
	auxParam  uintptr
	debugName string
}

// Fct is the handler invoked sequentially for every dispatched event. The
// handler owns params for the duration of the call and must not retain it
// beyond return.
type Fct func(event int32, eltID uint32, params any, auxParam uintptr)

// Manager runs its handler (fct) against every event enqueued via Enqueue /
// EnqueueAsNext, one at a time, in its own goroutine.
type Manager struct {
	name    string
	fct     Fct
	q       *queue.Queue[*eventItem]
	stopped chan struct{}
	done    chan struct{}
}

// CreateAndStart builds a Manager and immediately starts its dispatch
// goroutine.
func CreateAndStart(fct Fct, name string) *Manager {
	m := &Manager{
		name:    name,
		fct:     fct,
		q:       queue.New[*eventItem](name),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Manager) run() {
	defer close(m.done)
	log := logger.WithManager(m.name)
	for {
		item := m.q.DequeueBlocking()
		if item == nil {
			return // poison pill
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Sugar().Errorf("event dispatcher %q: handler panic on event %d (%s): %v", m.name, item.event, item.debugName, r)
				}
			}()
			m.fct(item.event, item.eltID, item.params, item.auxParam)
		}()
	}
}

func (m *Manager) enqueue(event int32, eltID uint32, params any, auxParam uintptr, debugName string, asNext bool) error {
	select {
	case <-m.stopped:
		return status.New("eventmgr.Enqueue", status.InvalidState)
	default:
	}
	item := &eventItem{event: event, eltID: eltID, params: params, auxParam: auxParam, debugName: debugName}
	if asNext {
		m.q.EnqueueFirst(item)
	} else {
		m.q.EnqueueLast(item)
	}
	return nil
}

// Enqueue adds event to be handled after every event already queued.
func (m *Manager) Enqueue(event int32, eltID uint32, params any, auxParam uintptr, debugName string) error {
	return m.enqueue(event, eltID, params, auxParam, debugName, false)
}

// EnqueueAsNext adds event to be the very next one handled, bypassing FIFO
// order. Use sparingly: event ordering guarantees are lost for this event.
func (m *Manager) EnqueueAsNext(event int32, eltID uint32, params any, auxParam uintptr, debugName string) error {
	return m.enqueue(event, eltID, params, auxParam, debugName, true)
}

// AddEvent implements timer.Dispatcher, translating a fired timer's
// EventParams into an Enqueue call. Enqueue failures (e.g. manager already
// stopped) are logged rather than propagated, since Dispatcher has no
// error return — a fired timer whose target manager is gone is dropped.
func (m *Manager) AddEvent(p timer.EventParams) {
	if err := m.Enqueue(p.Event, p.EltID, p.Params, p.AuxParam, p.DebugName); err != nil {
		logger.WithManager(m.name).Sugar().Warnf("dropped timer event %q: %v", p.DebugName, err)
	}
}

// StopAndDelete stops the dispatch goroutine, blocking until it has
// drained the queue up to and including the poison pill, and joined.
func (m *Manager) StopAndDelete() error {
	select {
	case <-m.stopped:
		return status.New("eventmgr.StopAndDelete", status.InvalidState)
	default:
		close(m.stopped)
	}
	m.q.EnqueueLast(nil)
	<-m.done
	return nil
}

// Name returns the manager's debug name.
func (m *Manager) Name() string { return m.name }
