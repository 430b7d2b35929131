package telemetry

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSource subscribes to a telemetry topic on an MQTT broker and delivers
// decoded samples. The subscription is re-established automatically after a
// reconnect.
type MQTTSource struct {
	client  paho.Client
	ch      chan Sample
	dropped atomic.Uint64
}

// NewMQTTSource creates a source connected to the given broker, subscribed
// to topic.
func NewMQTTSource(broker, topic string) (*MQTTSource, error) {
	s := &MQTTSource{
		ch: make(chan Sample, 16),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("gauge-display-telemetry").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c paho.Client) {
			// Subscribe on every (re)connect; paho does not restore
			// subscriptions for us with clean sessions.
			token := c.Subscribe(topic, 0, s.onMessage)
			go func() {
				token.Wait()
				if err := token.Error(); err != nil {
					log.Printf("subscribe %s: %v", topic, err)
				}
			}()
		})

	s.client = paho.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return s, nil
}

func (s *MQTTSource) onMessage(_ paho.Client, msg paho.Message) {
	sample, err := ParseSample(msg.Payload())
	if err != nil {
		s.dropped.Add(1)
		return
	}

	// Never block the paho callback; if the control loop is behind, the
	// newest sample wins and the stale one is counted as dropped.
	select {
	case s.ch <- sample:
	default:
		s.dropped.Add(1)
	}
}

// Samples returns the channel new samples arrive on.
func (s *MQTTSource) Samples() <-chan Sample {
	return s.ch
}

// Dropped returns the number of malformed or discarded records so far.
func (s *MQTTSource) Dropped() uint64 {
	return s.dropped.Load()
}

// IsConnected reports whether the broker connection is active.
func (s *MQTTSource) IsConnected() bool {
	return s.client.IsConnected()
}

// Close disconnects from the broker.
func (s *MQTTSource) Close() error {
	s.client.Disconnect(1000) // 1 second timeout
	return nil
}
