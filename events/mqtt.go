package events

import (
	"encoding/json"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const connectTimeout = 10 * time.Second

// MQTTEmitter publishes events to the platform broker, the same transport
// the station fleet listens on for command dispatch. Publishes are QoS 0
// and non-blocking; a lost message is acceptable by contract.
type MQTTEmitter struct {
	client pahomqtt.Client
	log    zerolog.Logger
}

var _ Emitter = (*MQTTEmitter)(nil)

// ConnectMQTT establishes a broker connection with auto-reconnect enabled.
func ConnectMQTT(brokerURL, clientID string, log zerolog.Logger) (*MQTTEmitter, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	client := pahomqtt.NewClient(opts)
	connectToken := client.Connect()
	if !connectToken.WaitTimeout(connectTimeout) {
		return nil, errors.Errorf("mqtt connect timeout after %v", connectTimeout)
	}
	if err := connectToken.Error(); err != nil {
		return nil, errors.Wrap(err, "mqtt connect")
	}

	return &MQTTEmitter{client: client, log: log}, nil
}

// Emit marshals the payload and publishes it. Errors are logged, never
// returned; emission is fire-and-forget by contract.
func (e *MQTTEmitter) Emit(topic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		e.log.Error().Err(err).Str("topic", topic).Msg("event payload marshal failed")
		return
	}

	publishToken := e.client.Publish(topic, 0, false, body)
	go func() {
		publishToken.Wait()
		if err := publishToken.Error(); err != nil {
			e.log.Warn().Err(err).Str("topic", topic).Msg("event publish failed")
		}
	}()
}

// Close disconnects from the broker, allowing in-flight publishes a grace
// period.
func (e *MQTTEmitter) Close() {
	e.client.Disconnect(250)
}
