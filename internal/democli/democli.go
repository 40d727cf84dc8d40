// Package democli holds the bootstrap every spec §6 demo CLI shares:
// config/logger init and building the service adapters the command drives,
// mirroring config.c's Config_Get / Config_ApplyUserAppConfig shared by
// every ingopcs_* demo in the original sources.
package democli

import (
	"flag"
	"fmt"
	"os"

	"github.com/edge-opcua/opcuacore/internal/config"
	"github.com/edge-opcua/opcuacore/internal/logger"
	"github.com/edge-opcua/opcuacore/internal/opcua/addrspace"
	"github.com/edge-opcua/opcuacore/internal/opcua/services"
	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// Bootstrap is the config, logger and address space every demo CLI needs.
type Bootstrap struct {
	Config   *config.Config
	Space    *addrspace.AddressSpace
	Watcher  *addrspace.Watcher
	Adapters *services.Adapters
}

// Flags registers the --config flag common to every demo CLI and returns
// the pointer that flag.Parse fills with its value.
func Flags() (configPath *string) {
	return flag.String("config", "", "path to a YAML config file (default: ./config.yaml or $HOME/.opcuacore)")
}

// Init loads config, initializes the global logger and builds the address
// space (from Config.Server.NodeSetPath, watched if WatchNodeSet is set,
// or the built-in demo address space if NodeSetPath is empty).
func Init(configPath string) (*Bootstrap, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		LogDir: cfg.Logger.LogDir,
	}); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	b := &Bootstrap{Config: cfg}

	switch {
	case cfg.Server.NodeSetPath == "":
		b.Space = addrspace.Demo()
	case cfg.Server.WatchNodeSet:
		w, err := addrspace.WatchNodeSet(cfg.Server.NodeSetPath)
		if err != nil {
			return nil, fmt.Errorf("loading nodeset %s: %w", cfg.Server.NodeSetPath, err)
		}
		b.Watcher = w
		b.Space = w.Current()
	default:
		f, err := os.Open(cfg.Server.NodeSetPath)
		if err != nil {
			return nil, fmt.Errorf("opening nodeset %s: %w", cfg.Server.NodeSetPath, err)
		}
		defer f.Close()
		space, err := addrspace.LoadNodeSet(f)
		if err != nil {
			return nil, fmt.Errorf("loading nodeset %s: %w", cfg.Server.NodeSetPath, err)
		}
		b.Space = space
	}

	b.Adapters = &services.Adapters{Space: b.Space}
	if cfg.Audit.Enabled {
		store, err := services.NewAuditStore(cfg.Audit.DBPath)
		if err != nil {
			logger.Get().Sugar().Warnf("democli: audit store unavailable, continuing without it: %v", err)
		} else {
			b.Adapters.Audit = store
		}
	}
	return b, nil
}

// ParseNodeID parses a command-line NodeId argument, printing the spec §6
// usage error and exiting the process on failure (matching the
// ingopcs_* demos' "nodeid not recognized" behavior).
func ParseNodeID(arg string) values.NodeId {
	id, err := values.FromCString(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: nodeid not recognized: %q (%v)\n", arg, err)
		os.Exit(1)
	}
	return id
}

// Fail prints a formatted error to stderr and exits with status 1.
func Fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// FormatVariant renders a scalar Variant for demo CLI output. It does not
// attempt array/matrix/extension-object formatting: the demo tools only
// ever read/write scalar Value attributes.
func FormatVariant(v values.Variant) string {
	switch v.Kind {
	case values.KindBoolean:
		return fmt.Sprintf("%t", v.Boolean)
	case values.KindSByte:
		return fmt.Sprintf("%d", v.SByte)
	case values.KindByte:
		return fmt.Sprintf("%d", v.Byte)
	case values.KindInt16:
		return fmt.Sprintf("%d", v.Int16)
	case values.KindUInt16:
		return fmt.Sprintf("%d", v.UInt16)
	case values.KindInt32:
		return fmt.Sprintf("%d", v.Int32)
	case values.KindUInt32:
		return fmt.Sprintf("%d", v.UInt32)
	case values.KindInt64:
		return fmt.Sprintf("%d", v.Int64)
	case values.KindUInt64:
		return fmt.Sprintf("%d", v.UInt64)
	case values.KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case values.KindDouble:
		return fmt.Sprintf("%g", v.Double)
	case values.KindString:
		return v.String.String()
	case values.KindNodeId:
		return v.NodeID.ToCString()
	default:
		return fmt.Sprintf("<%v>", v.Kind)
	}
}
