package msg

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"
)

func TestSubscribe(t *testing.T) {
	pidPub, err := uuid.NewUUID()
	assert.NilError(t, err)

	pidSub1, err := uuid.NewUUID()
	assert.NilError(t, err)

	pidSub2, err := uuid.NewUUID()
	assert.NilError(t, err)

	pubsub := NewPublisher(pidPub)
	ch1 := pubsub.Subscribe(pidSub1, Status)
	ch2 := pubsub.Subscribe(pidSub2, Status)

	randValue := rand.Float64()
	pubsub.Publish(Status, randValue)

	incoming := <-ch1
	assert.Equal(t, incoming.Payload(), randValue, "First subscriber did not recieve the correct published value")
	assert.Equal(t, incoming.PID(), pidPub)
	assert.Equal(t, incoming.Topic(), Status)

	incoming = <-ch2
	assert.Equal(t, incoming.Payload(), randValue, "Second subscriber did not recieve the correct published value")
}

func TestTopicIsolation(t *testing.T) {
	pidPub, _ := uuid.NewUUID()
	pidSub, _ := uuid.NewUUID()

	pubsub := NewPublisher(pidPub)
	chTrip := pubsub.Subscribe(pidSub, Trip)

	pubsub.Publish(Status, 1.0)
	pubsub.Publish(Trip, "Factory-A")

	incoming := <-chTrip
	assert.Equal(t, incoming.Payload(), "Factory-A", "Trip subscriber should not see Status traffic")
}

func TestUnsubscribe(t *testing.T) {
	pidPub, _ := uuid.NewUUID()
	pidSub, _ := uuid.NewUUID()

	pubsub := NewPublisher(pidPub)
	chStatus := pubsub.Subscribe(pidSub, Status)
	chFault := pubsub.Subscribe(pidSub, Fault)

	pubsub.Unsubscribe(pidSub)

	_, ok := <-chStatus
	assert.Assert(t, ok == false)
	_, ok = <-chFault
	assert.Assert(t, ok == false)

	// publishing after unsubscribe must not panic on closed channels
	pubsub.Publish(Status, 1.0)
	pubsub.Publish(Fault, "SolarFarm-A")
}

func TestPublishDropsWhenSubscriberFull(t *testing.T) {
	pidPub, _ := uuid.NewUUID()
	pidSub, _ := uuid.NewUUID()

	pubsub := NewPublisher(pidPub)
	ch := pubsub.Subscribe(pidSub, Status)

	for i := 0; i < 100; i++ {
		pubsub.Publish(Status, float64(i))
	}

	// buffered depth is exceeded; the publisher must not have blocked
	incoming := <-ch
	assert.Equal(t, incoming.Payload(), 0.0)
}
