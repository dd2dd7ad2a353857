package msg

import (
	"sync"

	"github.com/google/uuid"
)

// Topic classifies a broadcast message.
type Topic int

const (
	// Status carries a grid.Report after each simulation cycle.
	Status Topic = iota
	// Trip carries the name of a load shed during a cycle.
	Trip
	// Fault carries the name of a component on fault inject/resolve.
	Fault
)

// Publisher is an interface for objects that allow subscription to their events
type Publisher interface {
	Subscribe(uuid.UUID, Topic) <-chan Msg
	Unsubscribe(uuid.UUID)
}

// Msg is a single broadcast message.
type Msg struct {
	sender  uuid.UUID
	topic   Topic
	payload interface{}
}

// New is the Msg factory function
func New(sender uuid.UUID, topic Topic, payload interface{}) Msg {
	return Msg{sender, topic, payload}
}

// PID returns the sender's PID
func (v Msg) PID() uuid.UUID {
	return v.sender
}

// Topic returns the message topic
func (v Msg) Topic() Topic {
	return v.topic
}

// Payload returns the message data
func (v Msg) Payload() interface{} {
	return v.payload
}

// PubSub fans messages out to per-topic subscribers.
type PubSub struct {
	mux  *sync.Mutex
	pid  uuid.UUID
	subs map[Topic]map[uuid.UUID]chan<- Msg
}

// NewPublisher returns a PubSub broadcasting as sender pid.
func NewPublisher(pid uuid.UUID) *PubSub {
	subs := make(map[Topic]map[uuid.UUID]chan<- Msg)
	return &PubSub{&sync.Mutex{}, pid, subs}
}

// Subscribe registers pid for all messages published on topic.
func (p *PubSub) Subscribe(pid uuid.UUID, topic Topic) <-chan Msg {
	p.mux.Lock()
	defer p.mux.Unlock()
	ch := make(chan Msg, 32)
	if _, ok := p.subs[topic]; !ok {
		p.subs[topic] = make(map[uuid.UUID]chan<- Msg)
	}
	p.subs[topic][pid] = ch
	return ch
}

// Unsubscribe removes pid from all topic broadcasts and closes its channels.
func (p *PubSub) Unsubscribe(pid uuid.UUID) {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, members := range p.subs {
		if ch, ok := members[pid]; ok {
			delete(members, pid)
			close(ch)
		}
	}
}

// Publish broadcasts payload to every subscriber on topic. Sends never
// block: a subscriber with a full channel misses the message.
func (p *PubSub) Publish(topic Topic, payload interface{}) {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, ch := range p.subs[topic] {
		select {
		case ch <- New(p.pid, topic, payload):
		default:
		}
	}
}
