package chathub

import (
	"context"
	"encoding/json"
	"log"

	"civicvoice/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const backplaneChannel = "chat:events"

// Backplane is the optional cross-node fan-out adapter over Redis Pub/Sub.
// The default deployment runs without one: delivery is then strictly
// in-process and the service must stay single-instance.
type Backplane struct {
	rdb *redis.Client
	ctx context.Context
	// origin tags published envelopes so an instance can drop its own echo.
	origin string
}

func NewBackplane(rdb *redis.Client) *Backplane {
	return &Backplane{
		rdb:    rdb,
		ctx:    context.Background(),
		origin: uuid.New().String(),
	}
}

type backplaneEnvelope struct {
	Origin string       `json:"origin"`
	Event  models.Event `json:"event"`
}

// Publish sends the event to every subscribed instance.
func (b *Backplane) Publish(event models.Event) error {
	payload, err := json.Marshal(backplaneEnvelope{Origin: b.origin, Event: event})
	if err != nil {
		return err
	}
	return b.rdb.Publish(b.ctx, backplaneChannel, payload).Err()
}

// StartListener subscribes to the backplane channel and forwards foreign
// events into out. Runs in its own goroutine.
func (b *Backplane) StartListener(out chan<- models.Event) {
	go func() {
		pubsub := b.rdb.Subscribe(b.ctx, backplaneChannel)
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var envelope backplaneEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				log.Printf("backplane: dropping undecodable message: %v", err)
				continue
			}
			if envelope.Origin == b.origin {
				continue
			}
			out <- envelope.Event
		}
	}()
}
