package services

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// Historian appends Variable DataValue writes to an InfluxDB measurement,
// adapted from pkg/nodes/database/influxdb.go's client/writeAPI wiring.
// Only scalar numeric and boolean Variant kinds are recorded as fields;
// other kinds are skipped (a historian storing NodeId/ExtensionObject blobs
// has no useful query shape in a time-series bucket).
type Historian struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPIBlocking
	measurement string
}

// NewHistorian opens a blocking-write InfluxDB client against the given
// server/org/bucket, recording points under measurement.
func NewHistorian(url, token, org, bucket, measurement string) *Historian {
	client := influxdb2.NewClient(url, token)
	return &Historian{
		client:      client,
		writeAPI:    client.WriteAPIBlocking(org, bucket),
		measurement: measurement,
	}
}

// RecordDataValue writes dv's source timestamp and value as one point
// tagged by the node's textual id. Returns nil without writing when the
// Variant kind has no numeric/boolean field representation.
func (h *Historian) RecordDataValue(id values.NodeId, dv values.DataValue) error {
	field, ok := scalarField(dv.Value)
	if !ok {
		return nil
	}
	tags := map[string]string{"node_id": id.ToCString()}
	fields := map[string]interface{}{"value": field, "status": dv.Status.String()}
	ts := sourceTime(dv)
	point := write.NewPoint(h.measurement, tags, fields, ts)
	if err := h.writeAPI.WritePoint(context.Background(), point); err != nil {
		return fmt.Errorf("historian write point: %w", err)
	}
	return nil
}

func scalarField(v values.Variant) (interface{}, bool) {
	if v.IsArray || v.IsMatrix {
		return nil, false
	}
	switch v.Kind {
	case values.KindBoolean:
		return v.Boolean, true
	case values.KindSByte:
		return v.SByte, true
	case values.KindByte:
		return v.Byte, true
	case values.KindInt16:
		return v.Int16, true
	case values.KindUInt16:
		return v.UInt16, true
	case values.KindInt32:
		return v.Int32, true
	case values.KindUInt32:
		return v.UInt32, true
	case values.KindInt64:
		return v.Int64, true
	case values.KindUInt64:
		return v.UInt64, true
	case values.KindFloat:
		return v.Float, true
	case values.KindDouble:
		return v.Double, true
	default:
		return nil, false
	}
}

// sourceTime converts dv's OPC UA SourceTimestamp (100ns ticks since
// 1601-01-01) to a time.Time, falling back to the current time when the
// DataValue carries none.
func sourceTime(dv values.DataValue) time.Time {
	if dv.SourceTimestamp == 0 {
		return time.Now()
	}
	epoch := time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)
	return epoch.Add(time.Duration(dv.SourceTimestamp) * 100 * time.Nanosecond)
}

// Close flushes and closes the underlying InfluxDB client.
func (h *Historian) Close() { h.client.Close() }
