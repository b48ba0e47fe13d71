package mqtt

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Triggers contains all trigger events that were published.
	Triggers []TriggerEvent

	// Payloads contains the JSON payloads for trigger events.
	Payloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishTrigger.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishTrigger records the trigger event.
func (f *FakePublisher) PublishTrigger(event TriggerEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Triggers = append(f.Triggers, event)

	payload, err := FormatTriggerPayload(event)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)

	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// TriggerNames returns the published trigger names in order.
func (f *FakePublisher) TriggerNames() []string {
	names := make([]string, len(f.Triggers))
	for i, e := range f.Triggers {
		names[i] = e.Trigger
	}
	return names
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Triggers = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
