// Package opsserver implements the ambient HTTP status/introspection
// surface: a small read-only view over the address space and the running
// client state machines, mirroring the teacher's cmd/edgeflow Fiber
// wiring (cors, logger and recover middleware, grouped routes) but
// serving OPC UA runtime state instead of flow/module status.
package opsserver

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/edge-opcua/opcuacore/internal/opcua/addrspace"
	"github.com/edge-opcua/opcuacore/internal/opcua/eventbus"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// SessionSnapshot is the subset of client.Machine state worth exposing
// over /sessions, decoupled from the client package so opsserver doesn't
// need to import every machine a caller happens to be running.
type SessionSnapshot struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	SessionID string `json:"session_id,omitempty"`
}

// SessionLister is called on every /sessions request to get the current
// set of running machines.
type SessionLister func() []SessionSnapshot

// Server is the ops HTTP surface. Construct with New, then Listen.
type Server struct {
	app *fiber.App
	hub *eventbus.Hub
}

// New builds the Fiber app, wiring /healthz, /addrspace and /sessions
// against space and sessions, and /events behind the given event hub.
func New(space func() *addrspace.AddressSpace, sessions SessionLister, hub *eventbus.Hub) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlog.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/addrspace", func(c *fiber.Ctx) error {
		as := space()
		if as == nil {
			return c.JSON(fiber.Map{"nodes": 0})
		}
		type nodeSummary struct {
			NodeID     string `json:"node_id"`
			NodeClass  string `json:"node_class"`
			BrowseName string `json:"browse_name"`
		}
		summaries := make([]nodeSummary, 0, as.Len())
		as.ForEach(func(id values.NodeId, node *addrspace.Node) {
			summaries = append(summaries, nodeSummary{
				NodeID:     id.ToCString(),
				NodeClass:  node.NodeClass.String(),
				BrowseName: node.BrowseName.Name.String(),
			})
		})
		return c.JSON(fiber.Map{"count": len(summaries), "nodes": summaries})
	})

	app.Get("/sessions", func(c *fiber.Ctx) error {
		if sessions == nil {
			return c.JSON(fiber.Map{"sessions": []SessionSnapshot{}})
		}
		return c.JSON(fiber.Map{"sessions": sessions()})
	})

	if hub != nil {
		app.Use("/events", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				c.Locals("allowed", true)
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/events", websocket.New(hub.FiberHandler()))
	}

	return &Server{app: app, hub: hub}
}

// Listen starts serving on addr, blocking until the server is shut down.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
