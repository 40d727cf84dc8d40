// Command server is the long-lived OPC UA core runtime the demo CLIs
// (browse/read/write/discovery/register) interact with: it owns the
// address space (optionally hot-reloaded from a NodeSet file), the
// service adapters and their optional sinks, the event bus, and the
// ambient ops HTTP surface.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edge-opcua/opcuacore/internal/config"
	"github.com/edge-opcua/opcuacore/internal/democli"
	"github.com/edge-opcua/opcuacore/internal/logger"
	"github.com/edge-opcua/opcuacore/internal/opcua/addrspace"
	"github.com/edge-opcua/opcuacore/internal/opcua/eventbus"
	"github.com/edge-opcua/opcuacore/internal/opcua/services"
	"github.com/edge-opcua/opcuacore/internal/opsserver"
)

func main() {
	configPath := democli.Flags()
	flag.Parse()

	boot, err := democli.Init(*configPath)
	if err != nil {
		democli.Fail("%v", err)
	}
	cfg := boot.Config
	log := logger.Get()

	wireSinks(boot.Adapters, cfg.Sinks)

	hub := eventbus.New()
	defer hub.Close()
	logger.SetBroadcaster(hub.AsLogBroadcaster())

	spaceFn := func() *addrspace.AddressSpace {
		if boot.Watcher != nil {
			return boot.Watcher.Current()
		}
		return boot.Space
	}
	ops := opsserver.New(spaceFn, nil, hub)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := ops.Listen(addr); err != nil {
			log.Sugar().Errorf("ops server stopped: %v", err)
		}
	}()
	log.Sugar().Infof("ops surface listening on %s (%d node(s) loaded)", addr, boot.Space.Len())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	if boot.Watcher != nil {
		boot.Watcher.Close()
	}
	_ = ops.Shutdown()
}

// wireSinks attaches whichever optional sinks the config enables. A sink
// left disabled or failing to connect stays nil, which every service
// adapter already treats as "no sink configured".
func wireSinks(a *services.Adapters, cfg config.SinksConfig) {
	log := logger.Get().Sugar()

	if cfg.InfluxDB.Enabled {
		a.Historian = services.NewHistorian(cfg.InfluxDB.URL, cfg.InfluxDB.Token, cfg.InfluxDB.Org, cfg.InfluxDB.Bucket, cfg.InfluxDB.Measurement)
	}

	if cfg.MQTT.Enabled {
		telemetry, err := services.NewTelemetry(cfg.MQTT.Broker, "opcuacore-server", cfg.MQTT.Topic, 1)
		if err != nil {
			log.Warnf("mqtt telemetry sink unavailable: %v", err)
		} else {
			a.Telemetry = telemetry
		}
	}

	if cfg.Redis.Enabled {
		a.Publisher = services.NewPublisher(cfg.Redis.Addr, "", 0, cfg.Redis.Channel)
	}
}
