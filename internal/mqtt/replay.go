package mqtt

import "log"

// pendingPublish is one event held while the broker connection is down.
// Exactly one of trigger/system is set. The payload is rendered at replay
// time; a status snapshot captured in RawPayload replays as captured.
type pendingPublish struct {
	trigger *TriggerEvent
	system  *SystemEvent
}

// message renders the pending event into its topic, retained flag, and payload.
func (p pendingPublish) message() (topic string, retained bool, payload []byte, err error) {
	if p.trigger != nil {
		payload, err = FormatTriggerPayload(*p.trigger)
		return Topic, false, payload, err
	}
	payload, err = FormatSystemPayload(*p.system)
	return TopicSystem, p.system.Retained, payload, err
}

// replayQueue holds at most max events to republish after reconnecting.
// When full, the oldest event gives way; trigger history loses its head
// rather than its most recent entries. Not safe for concurrent use;
// RealPublisher guards it with its mutex.
type replayQueue struct {
	pending []pendingPublish
	max     int
	dropped int
}

func newReplayQueue(max int) *replayQueue {
	return &replayQueue{max: max}
}

func (q *replayQueue) addTrigger(event TriggerEvent) {
	q.add(pendingPublish{trigger: &event})
}

func (q *replayQueue) addSystem(event SystemEvent) {
	q.add(pendingPublish{system: &event})
}

func (q *replayQueue) add(p pendingPublish) {
	if len(q.pending) == q.max {
		if q.dropped == 0 {
			log.Printf("mqtt: replay queue full (%d events), dropping oldest", q.max)
		}
		q.dropped++
		copy(q.pending, q.pending[1:])
		q.pending = q.pending[:len(q.pending)-1]
	}
	q.pending = append(q.pending, p)
}

// drain empties the queue and returns the pending events, oldest first.
func (q *replayQueue) drain() []pendingPublish {
	out := q.pending
	q.pending = nil
	q.dropped = 0
	return out
}

func (q *replayQueue) size() int {
	return len(q.pending)
}
