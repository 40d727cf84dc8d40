package services

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// Telemetry republishes successful Write-service operations on an MQTT
// topic, adapted from pkg/nodes/network/mqtt_out.go's connect-then-publish
// shape (minus the per-message topic/QoS override, since every republish
// here targets the one configured topic).
type Telemetry struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// writeTelemetryMessage is the JSON payload republished for every Write.
type writeTelemetryMessage struct {
	NodeID    string `json:"nodeId"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// NewTelemetry connects to broker and returns a Telemetry bridge
// publishing to topic at the given QoS.
func NewTelemetry(broker, clientID, topic string, qos byte) (*Telemetry, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID).SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		return nil, fmt.Errorf("telemetry connect: %w", token.Error())
	}
	return &Telemetry{client: client, topic: topic, qos: qos}, nil
}

// PublishWrite republishes id's new value status on the configured topic.
func (t *Telemetry) PublishWrite(id values.NodeId, dv values.DataValue) error {
	payload, err := json.Marshal(writeTelemetryMessage{
		NodeID:    id.ToCString(),
		Status:    dv.Status.String(),
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal telemetry payload: %w", err)
	}
	token := t.client.Publish(t.topic, t.qos, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("telemetry publish: %w", token.Error())
	}
	return nil
}

// Close disconnects the MQTT client.
func (t *Telemetry) Close() { t.client.Disconnect(250) }
