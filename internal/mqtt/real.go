package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// replayCapacity bounds the number of events held while disconnected.
const replayCapacity = 64

// RealPublisher publishes to an actual MQTT broker. Events produced while
// the connection is down are queued as values and republished on reconnect.
type RealPublisher struct {
	client paho.Client

	mu            sync.Mutex
	queue         *replayQueue
	configHandler func(payload []byte)
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := &RealPublisher{queue: newReplayQueue(replayCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p.client = client
	return p, nil
}

// PublishTrigger sends a trigger event to the MQTT broker, or queues it for
// replay while the connection is down.
func (p *RealPublisher) PublishTrigger(event TriggerEvent) error {
	if !p.IsConnected() {
		p.mu.Lock()
		p.queue.addTrigger(event)
		p.mu.Unlock()
		return nil
	}

	payload, err := FormatTriggerPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(Topic, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker, or queues
// it for replay while the connection is down.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	if !p.IsConnected() {
		p.mu.Lock()
		p.queue.addSystem(event)
		p.mu.Unlock()
		return nil
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(TopicSystem, event.Retained, payload)
}

// send publishes one message at QoS 1 (at-least-once): trigger events are
// the point of the daemon.
func (p *RealPublisher) send(topic string, retained bool, payload []byte) error {
	token := p.client.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// onConnect republishes queued events and restores the config subscription.
func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	pending := p.queue.drain()
	handler := p.configHandler
	p.mu.Unlock()

	if len(pending) > 0 {
		log.Printf("mqtt: republishing %d events held while disconnected", len(pending))
	}
	for _, msg := range pending {
		topic, retained, payload, err := msg.message()
		if err != nil {
			log.Printf("mqtt: replay format error on %s: %v", topic, err)
			continue
		}
		token := client.Publish(topic, 1, retained, payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", topic)
		} else if err := token.Error(); err != nil {
			log.Printf("mqtt: replay error on %s: %v", topic, err)
		}
	}

	if handler != nil {
		if err := p.subscribeConfig(client, handler); err != nil {
			log.Printf("mqtt: %v", err)
		}
	}
}

// SubscribeConfig registers a handler for remote configuration payloads
// published to TopicConfigSet. The subscription survives reconnects.
func (p *RealPublisher) SubscribeConfig(handler func(payload []byte)) error {
	p.mu.Lock()
	p.configHandler = handler
	p.mu.Unlock()

	return p.subscribeConfig(p.client, handler)
}

func (p *RealPublisher) subscribeConfig(client paho.Client, handler func(payload []byte)) error {
	token := client.Subscribe(TopicConfigSet, 1, func(_ paho.Client, msg paho.Message) {
		handler(msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicConfigSet, err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client != nil && p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
