package display

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/gauge-display/internal/logic"
)

// pendingCapacity bounds the number of commands buffered while disconnected.
const pendingCapacity = 64

// MQTTPanel drives a remote panel renderer by publishing commands to an MQTT
// broker. Commands issued while the broker is unreachable are queued and
// replayed in order on reconnect. Backlight power is driven locally through
// the PowerSwitch in addition to being published.
type MQTTPanel struct {
	client paho.Client
	bl     PowerSwitch // may be nil when running without backlight hardware
	now    func() time.Time

	mu      sync.Mutex
	pending *pendingQueue
}

// NewMQTTPanel creates a panel driver connected to the given broker.
// bl may be nil to skip backlight control.
func NewMQTTPanel(broker string, bl PowerSwitch) (*MQTTPanel, error) {
	p := &MQTTPanel{
		bl:      bl,
		now:     time.Now,
		pending: newPendingQueue(pendingCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("gauge-display").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.flushPending() })

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// HideGauge publishes a hide command for one gauge.
func (p *MQTTPanel) HideGauge(g logic.Gauge) {
	log.Printf("panel: %s gauge hidden (zero for too long)", g)
	p.publishCommand(Command{Action: ActionHide, Gauge: g.String()})
}

// ShowGauge publishes a show command for one gauge.
func (p *MQTTPanel) ShowGauge(g logic.Gauge) {
	log.Printf("panel: %s gauge shown (non-zero data received)", g)
	p.publishCommand(Command{Action: ActionShow, Gauge: g.String()})
}

// Blank publishes a whole-panel blank command.
func (p *MQTTPanel) Blank() {
	log.Printf("panel: display blanked (no data received)")
	p.publishCommand(Command{Action: ActionBlank})
}

// Restore publishes a whole-panel restore command. Gauge visibility is the
// renderer's to keep; restore only re-shows the frame.
func (p *MQTTPanel) Restore() {
	log.Printf("panel: display restored (new data received)")
	p.publishCommand(Command{Action: ActionRestore})
}

// PowerOn lights the backlight and publishes the power state.
func (p *MQTTPanel) PowerOn() {
	if p.bl != nil {
		if err := p.bl.On(); err != nil {
			log.Printf("backlight on: %v", err)
		}
	}
	p.publishCommand(Command{Action: ActionPowerOn})
}

// PowerOff darkens the backlight and publishes the power state.
func (p *MQTTPanel) PowerOff() {
	if p.bl != nil {
		if err := p.bl.Off(); err != nil {
			log.Printf("backlight off: %v", err)
		}
	}
	p.publishCommand(Command{Action: ActionPowerOff})
}

// FirstData publishes the one-time boot-done command.
func (p *MQTTPanel) FirstData() {
	log.Printf("panel: first data received - dismissing boot screen")
	p.publishCommand(Command{Action: ActionBootDone})
}

// UpdateGauge publishes a needle value for one gauge.
func (p *MQTTPanel) UpdateGauge(g logic.Gauge, value int) {
	v := value
	p.publishCommand(Command{Action: ActionGauge, Gauge: g.String(), Value: &v})
}

// UpdateClock publishes the wall-clock label.
func (p *MQTTPanel) UpdateClock(clock string) {
	p.publishCommand(Command{Action: ActionClock, Clock: clock})
}

// publishCommand serializes and publishes one command at QoS 0, queueing it
// instead when the broker is unreachable.
func (p *MQTTPanel) publishCommand(cmd Command) {
	cmd.Time = p.now()
	payload, err := FormatCommand(cmd)
	if err != nil {
		log.Printf("format command: %v", err)
		return
	}

	if !p.client.IsConnected() {
		p.mu.Lock()
		p.pending.add(TopicCommands, payload)
		p.mu.Unlock()
		return
	}

	// QoS 0 (at-most-once), not retained
	token := p.client.Publish(TopicCommands, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("publish command timeout")
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("publish command: %v", err)
	}
}

// flushPending replays queued commands after a reconnect.
func (p *MQTTPanel) flushPending() {
	p.mu.Lock()
	cmds, dropped := p.pending.drain()
	p.mu.Unlock()

	if dropped > 0 {
		log.Printf("panel: dropped %d commands while disconnected", dropped)
	}
	for _, c := range cmds {
		token := p.client.Publish(c.topic, 0, false, c.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("replay command timeout")
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("replay command: %v", err)
		}
	}
}

// PublishSystem sends a lifecycle event to the MQTT broker.
func (p *MQTTPanel) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the broker connection is active.
func (p *MQTTPanel) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *MQTTPanel) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
